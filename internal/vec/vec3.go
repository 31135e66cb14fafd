package vec

// Vec3 представляет целочисленную координату ячейки воксельной сетки
type Vec3 struct {
	X int
	Y int
	Z int
}

// InBox проверяет, лежит ли координата в полуинтервале [0, size) по каждой оси
func (v Vec3) InBox(size Vec3) bool {
	return v.X >= 0 && v.X < size.X &&
		v.Y >= 0 && v.Y < size.Y &&
		v.Z >= 0 && v.Z < size.Z
}

// Volume возвращает количество ячеек в коробке размера v
func (v Vec3) Volume() int {
	return v.X * v.Y * v.Z
}
