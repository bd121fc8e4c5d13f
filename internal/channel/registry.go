package channel

import "sort"

// Type is the live/recorded classification of a channel
type Type string

const (
	Live     Type = "라이브"
	Recorded Type = "녹화방송"
)

// UnknownChannel is the name resolved for codes missing from the registry
const UnknownChannel = "알 수 없는 채널"

// Registry maps channel codes to names and classifies names as live or recorded.
// It is immutable once built and safe for concurrent use.
type Registry struct {
	names map[string]string
	live  map[string]struct{}
}

// NewRegistry builds a registry from a code→name table and the set of live channel names
func NewRegistry(names map[string]string, live []string) *Registry {
	r := &Registry{
		names: make(map[string]string, len(names)),
		live:  make(map[string]struct{}, len(live)),
	}
	for code, name := range names {
		r.names[code] = name
	}
	for _, name := range live {
		r.live[name] = struct{}{}
	}
	return r
}

// DefaultRegistry returns the livehs channel table
func DefaultRegistry() *Registry {
	return NewRegistry(
		map[string]string{
			"535773": "LT",
			"590007": "LTONE",
			"535775": "GS",
			"535779": "GSMY",
			"590003": "신세계",
			"590001": "KT",
			"600003": "KT+",
			"535778": "홈앤",
			"600004": "SK",
			"535777": "NS",
			"590008": "NS+",
			"580002": "쇼핑엔",
			"535774": "CJ",
			"590006": "CJ+",
			"535776": "HD",
			"590005": "HD+",
			"580001": "공영",
			"590002": "W홈",
		},
		[]string{"LT", "GS", "홈앤", "공영", "NS", "CJ", "HD"},
	)
}

// ResolveName returns the channel name for code, or UnknownChannel
func (r *Registry) ResolveName(code string) string {
	if name, ok := r.names[code]; ok {
		return name
	}
	return UnknownChannel
}

// Classify returns Live for names in the live set and Recorded for everything else
func (r *Registry) Classify(name string) Type {
	if _, ok := r.live[name]; ok {
		return Live
	}
	return Recorded
}

// Codes returns the mapped channel codes in sorted order
func (r *Registry) Codes() []string {
	codes := make([]string, 0, len(r.names))
	for code := range r.names {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
