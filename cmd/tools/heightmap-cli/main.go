package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/annel0/blocky-world/internal/config"
	"github.com/annel0/blocky-world/internal/scene"
	"github.com/annel0/blocky-world/internal/world"
)

// shades символы глубины колонки от мелкой к глубокой
const shades = " .:-=+*#%@"

func main() {
	var (
		configPath = flag.String("config", "", "path to YAML config")
		command    = flag.String("cmd", "map", "Command: map, stats, blocks")
		jitter     = flag.String("jitter", "", "Override jitter: random, perlin")
		seed       = flag.Int64("seed", 0, "Override seed (0 keeps config value)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *jitter != "" {
		cfg.World.Jitter = *jitter
	}
	if *seed != 0 {
		cfg.World.Seed = *seed
	}

	w, err := buildWorld(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to build world: %v\n", err)
		os.Exit(1)
	}

	switch *command {
	case "map":
		printMap(os.Stdout, w)
	case "stats":
		printStats(os.Stdout, w.Stats())
		fmt.Printf("   Fill: %.1f%% of %d cells\n", 100*float64(w.BlockCount())/float64(w.Size().Volume()), w.Size().Volume())
	case "blocks":
		printBlocks(os.Stdout, w)
	default:
		fmt.Printf("❌ Unknown command: %s\n", *command)
		fmt.Println("Available commands: map, stats, blocks")
		os.Exit(1)
	}
}

// buildWorld генерирует карту высот и блоки без окна и рендерера
func buildWorld(cfg *config.Config) (*world.World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	j, err := world.NewJitter(cfg.World)
	if err != nil {
		return nil, err
	}
	w := world.New(scene.NewGraph(), cfg.World, j)
	if err := w.GenerateHeightMap(); err != nil {
		return nil, err
	}
	if err := w.BuildInitialBlocks(); err != nil {
		return nil, err
	}
	return w, nil
}

// printMap выводит карту глубин сверху: строки по z, столбцы по x.
// Пробел означает пустую колонку, шкала растянута до самой глубокой колонки.
func printMap(out io.Writer, w *world.World) {
	size := w.Size()
	top := w.Stats().MaxDepth
	fmt.Fprintf(out, "🗺️ Height map %dx%d (depth 0..%d)\n", size.X, size.Z, top)
	for z := 0; z < size.Z; z++ {
		var b strings.Builder
		for x := 0; x < size.X; x++ {
			b.WriteByte(shade(w.Depth(x, z), top))
		}
		fmt.Fprintln(out, b.String())
	}
}

// shade символ глубины: ' ' только для depth 0, maxDepth и глубже дают '@'
func shade(depth, maxDepth int) byte {
	if depth <= 0 {
		return shades[0]
	}
	span := max(maxDepth-1, 1)
	i := 1 + (depth-1)*(len(shades)-2)/span
	return shades[min(i, len(shades)-1)]
}

func printStats(out io.Writer, s world.Stats) {
	fmt.Fprintf(out, "📊 Columns: %d, blocks: %d\n", s.Columns, s.Blocks)
	fmt.Fprintf(out, "   Depth min/max/mean: %d / %d / %.2f\n", s.MinDepth, s.MaxDepth, s.MeanDepth)

	depths := make([]int, 0, len(s.Histogram))
	for d := range s.Histogram {
		depths = append(depths, d)
	}
	sort.Ints(depths)
	for _, d := range depths {
		n := s.Histogram[d]
		fmt.Fprintf(out, "   %2d | %-40s %d\n", d, strings.Repeat("█", min(n*40/max(s.Columns, 1)+1, 40)), n)
	}
}

func printBlocks(out io.Writer, w *world.World) {
	for _, b := range w.Blocks() {
		fmt.Fprintf(out, "%d %d %d\n", b.X, b.Y, b.Z)
	}
}
