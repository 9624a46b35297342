package model

type sortedIndexer struct {
	days      uint64
	positions uint64
}

func (i *sortedIndexer) Index(day, position uint64) uint64 {
	return position + i.positions*day
}

func (i *sortedIndexer) Attributes(index uint64) (day uint64, position uint64) {
	position = index % i.positions
	day = index / i.positions
	return day, position
}
