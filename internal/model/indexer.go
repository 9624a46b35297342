package model

// Indexer interface is designed to give a unique timeslot id to a (day, position) combination and vice versa
type Indexer interface {
	// Returns a unique timeslot id for a (day, position) combination
	Index(day, position uint64) uint64
	// Returns the (day, position) combination of a timeslot id
	Attributes(index uint64) (day uint64, position uint64)
}

func NewIndexer(days, positions uint64) Indexer {
	return &sortedIndexer{
		days:      days,
		positions: positions,
	}
}
