package services

// SwapCompareDummy подменяет фиктивное сравнение хеша и возвращает
// функцию восстановления исходного поведения.
func SwapCompareDummy(f func(string)) (restore func()) {
	old := compareDummy
	compareDummy = f
	return func() { compareDummy = old }
}
