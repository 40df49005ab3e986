package practicesession

// Marker is a persisted resume pointer.
type Marker struct {
	Index int `json:"index"`
	Total int `json:"total"`
}

// ResumableFor reports whether the marker may be honored for a freshly
// built list of the given length: same length and 0 < Index < Total.
func (m Marker) ResumableFor(total int) bool {
	return m.Total == total && m.Index > 0 && m.Index < m.Total
}

// MarkerKey addresses one marker: the single sequential marker, or one
// marker per topic.
type MarkerKey struct {
	Mode  Mode
	Topic string
}

func SequentialKey() MarkerKey {
	return MarkerKey{Mode: ModeSequential}
}

func TopicKey(topic string) MarkerKey {
	return MarkerKey{Mode: ModeTopic, Topic: topic}
}
