package vec

import "math"

// Vec2 представляет 2D вектор на горизонтальной плоскости
type Vec2 struct {
	X float64 `msgpack:"x" json:"x"`
	Y float64 `msgpack:"y" json:"y"`
}

// Forward - опорная ось "вперёд" для вычисления курса (модели смотрят вдоль +Y)
var Forward = Vec2{X: 0, Y: 1}

// Add складывает два вектора
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub вычитает вектор
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{X: v.X - other.X, Y: v.Y - other.Y}
}

// Mul умножает вектор на скаляр
func (v Vec2) Mul(scalar float64) Vec2 {
	return Vec2{X: v.X * scalar, Y: v.Y * scalar}
}

// Length возвращает длину вектора
func (v Vec2) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Normalized возвращает нормализованный вектор.
// Для нулевого вектора возвращается ok=false и сам вектор без изменений.
func (v Vec2) Normalized() (Vec2, bool) {
	length := v.Length()
	if length == 0 {
		return v, false
	}
	return Vec2{X: v.X / length, Y: v.Y / length}, true
}

// DistanceTo вычисляет расстояние до другой точки
func (v Vec2) DistanceTo(other Vec2) float64 {
	return v.Sub(other).Length()
}

// SignedAngleDeg возвращает угол поворота от v к other в градусах, (-180, 180].
// Положительный угол - поворот против часовой стрелки.
func (v Vec2) SignedAngleDeg(other Vec2) float64 {
	cross := v.X*other.Y - v.Y*other.X
	dot := v.X*other.X + v.Y*other.Y
	return math.Atan2(cross, dot) * 180 / math.Pi
}

// XYZ поднимает вектор в 3D с заданной координатой Z
func (v Vec2) XYZ(z float64) Vec3 {
	return Vec3{X: v.X, Y: v.Y, Z: z}
}
