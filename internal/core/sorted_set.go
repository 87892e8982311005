package core

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"redis_backed_model/pkg"
)

// DateScore is the "by" value whose score is a calendar date.
const DateScore = "date"

const dateLayout = "2006-01-02"

var (
	// scoreKeyPattern must match the whole key; near-misses are treated as scalars.
	scoreKeyPattern   = regexp.MustCompile(`^score_\[(\w+)\|(\w+)\]$`)
	scoreValuePattern = regexp.MustCompile(`\[([^\[\]\s]+)\]$`)
)

// IsScoreKey reports whether key is a sorted-set directive key.
func IsScoreKey(key string) bool {
	return scoreKeyPattern.MatchString(key)
}

// SortedSetDirective adds the owning entity to a sorted set.
//
// Key `score_[<dimension>|<by>]` with value `[<subkey>|<scoreSource>]` places the
// entity id in `<models>_for_<dimension>_by_<by>:<subkey>` with the given score.
type SortedSetDirective struct {
	Dimension   string
	By          string
	Subkey      string
	ScoreSource string

	model    Model
	memberID string
	score    string
}

// NewSortedSetDirective parses one score attribute pair for the entity id.
func NewSortedSetDirective(model Model, id string, key string, value any) (*SortedSetDirective, error) {
	m := scoreKeyPattern.FindStringSubmatch(key)
	if m == nil {
		return nil, attributeError(key, fmt.Errorf("%w: key is not score_[<dimension>|<by>]", ErrMalformedScoreDirective))
	}

	raw := FormatValue(value)
	if value == nil {
		raw = ""
	}
	subkey, source, err := parseScoreValue(raw)
	if err != nil {
		return nil, attributeError(key, err)
	}

	d := &SortedSetDirective{
		Dimension:   m[1],
		By:          m[2],
		Subkey:      subkey,
		ScoreSource: source,
		model:       model,
		memberID:    id,
	}
	if d.score, err = resolveScore(d.By, source); err != nil {
		return nil, attributeError(key, err)
	}
	return d, nil
}

func parseScoreValue(raw string) (string, string, error) {
	m := scoreValuePattern.FindStringSubmatch(raw)
	if m == nil {
		return "", "", fmt.Errorf("%w: value %q is not [<subkey>|<score>]", ErrMalformedScoreDirective, raw)
	}
	parts := strings.Split(m[1], "|")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: value %q is not [<subkey>|<score>]", ErrMalformedScoreDirective, raw)
	}
	return parts[0], parts[1], nil
}

// resolveScore converts date scores to epoch seconds and passes everything else
// through for the store to interpret.
func resolveScore(by, source string) (string, error) {
	if by != DateScore {
		return source, nil
	}
	t, err := time.ParseInLocation(dateLayout, source, time.UTC)
	if err != nil {
		return "", fmt.Errorf("%w: date score %q: %v", ErrMalformedScoreDirective, source, err)
	}
	return strconv.FormatInt(t.Unix(), 10), nil
}

// Key is the target sorted set.
func (d *SortedSetDirective) Key() string {
	return d.model.SortedSetKey(d.Dimension, d.By, d.Subkey)
}

// Score is the resolved score as sent to the store.
func (d *SortedSetDirective) Score() string {
	return d.score
}

// Member is the owning entity id.
func (d *SortedSetDirective) Member() string {
	return d.memberID
}

// Name identifies the directive among an entity's scores.
func (d *SortedSetDirective) Name() string {
	return "sorted_set_for_" + d.Dimension + "_by_" + d.By
}

// Command is zadd|<key>|<score>|<member>
func (d *SortedSetDirective) Command() pkg.Command {
	return pkg.NewSortedSetAdd(d.Key(), d.Score(), d.Member())
}
