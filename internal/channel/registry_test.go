package channel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveName(t *testing.T) {
	reg := DefaultRegistry()

	testCases := []struct {
		code string
		name string
	}{
		{"535773", "LT"},
		{"535778", "홈앤"},
		{"590002", "W홈"},
		{"999999", UnknownChannel},
		{"", UnknownChannel},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.name, reg.ResolveName(tc.code), tc.code)
	}
}

func TestClassify(t *testing.T) {
	reg := DefaultRegistry()

	for _, name := range []string{"LT", "GS", "홈앤", "공영", "NS", "CJ", "HD"} {
		assert.Equal(t, Live, reg.Classify(name), name)
	}
	for _, name := range []string{"LTONE", "GSMY", "CJ+", "HD+", "W홈", UnknownChannel, ""} {
		assert.Equal(t, Recorded, reg.Classify(name), name)
	}
}

func TestClassifyIsTotal(t *testing.T) {
	reg := DefaultRegistry()

	// every mapped channel falls in exactly one class
	live, recorded := 0, 0
	for _, code := range reg.Codes() {
		switch reg.Classify(reg.ResolveName(code)) {
		case Live:
			live++
		case Recorded:
			recorded++
		default:
			t.Fatalf("unclassified channel code %s", code)
		}
	}
	assert.Equal(t, 7, live)
	assert.Equal(t, 11, recorded)
}

func TestNewRegistryCopiesInput(t *testing.T) {
	names := map[string]string{"1": "A"}
	reg := NewRegistry(names, []string{"A"})

	names["1"] = "B"
	names["2"] = "C"

	assert.Equal(t, "A", reg.ResolveName("1"))
	assert.Equal(t, UnknownChannel, reg.ResolveName("2"))
	assert.Equal(t, []string{"1"}, reg.Codes())
}
