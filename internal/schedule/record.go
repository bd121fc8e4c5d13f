package schedule

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"sjsage522/livehsworker/internal/channel"
	"sjsage522/livehsworker/pkg/errors"
)

// DateLayout is the YYYYMMDD layout used in listing URLs and records
const DateLayout = "20060102"

// weekdays is indexed Monday=0
var weekdays = [7]string{"월", "화", "수", "목", "금", "토", "일"}

// Key is the deduplication fingerprint of a Record
type Key string

// Record is one normalized broadcast schedule entry
type Record struct {
	date        string
	day         string
	channel     string
	channelType channel.Type
	category    string
	time        string
	product     string
	link        string
}

func (r Record) Date() string              { return r.date }
func (r Record) Day() string               { return r.day }
func (r Record) Channel() string           { return r.channel }
func (r Record) ChannelType() channel.Type { return r.channelType }
func (r Record) Category() string          { return r.category }
func (r Record) Time() string              { return r.time }
func (r Record) Product() string           { return r.product }
func (r Record) Link() string              { return r.link }

// Fields returns the ordered field tuple that identifies the record
func (r Record) Fields() []string {
	return []string{r.date, r.day, r.channel, string(r.channelType), r.category, r.time, r.product, r.link}
}

type recordJSON struct {
	Date        string `json:"date"`
	Day         string `json:"day"`
	Channel     string `json:"channel"`
	ChannelType string `json:"channel_type"`
	Category    string `json:"category"`
	Time        string `json:"time"`
	Product     string `json:"product"`
	ProductLink string `json:"product_link"`
}

// MarshalJSON encodes the record with the document field names used by the sinks
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(recordJSON{
		Date:        r.date,
		Day:         r.day,
		Channel:     r.channel,
		ChannelType: string(r.channelType),
		Category:    r.category,
		Time:        r.time,
		Product:     r.product,
		ProductLink: r.link,
	})
}

// DayOfWeek returns the Korean day name for a YYYYMMDD date
func DayOfWeek(date string) (string, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", errors.NewValidation("schedule", "invalid date "+date)
	}
	// time.Weekday is Sunday=0
	return weekdays[(int(t.Weekday())+6)%7], nil
}

// Normalize resolves the channel and day-of-week for a raw listing item
// and assembles the finished record
func Normalize(reg *channel.Registry, date, code, timeText, title, link, category string) (Record, error) {
	day, err := DayOfWeek(date)
	if err != nil {
		return Record{}, err
	}
	name := reg.ResolveName(code)
	return Record{
		date:        date,
		day:         day,
		channel:     name,
		channelType: reg.Classify(name),
		category:    category,
		time:        timeText,
		product:     title,
		link:        link,
	}, nil
}

// Fingerprint hashes the record's ordered field tuple
func Fingerprint(r Record) Key {
	sum := sha256.Sum256([]byte(strings.Join(r.Fields(), "|")))
	return Key(hex.EncodeToString(sum[:]))
}

// Deduper keeps the first occurrence of each fingerprint. Not safe for concurrent use.
type Deduper struct {
	seen map[Key]struct{}
}

func NewDeduper() *Deduper {
	return &Deduper{seen: make(map[Key]struct{})}
}

// Add records r's fingerprint and reports whether it was new
func (d *Deduper) Add(r Record) bool {
	key := Fingerprint(r)
	if _, ok := d.seen[key]; ok {
		return false
	}
	d.seen[key] = struct{}{}
	return true
}

// Len returns the number of distinct fingerprints seen
func (d *Deduper) Len() int {
	return len(d.seen)
}
