package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandString(t *testing.T) {
	tests := []struct {
		name string
		cmd  Command
		want string
	}{
		{"hset", NewFieldSet("widget:1", "color", "red"), "hset|widget:1|color|red"},
		{"sadd", NewSetAdd("widget_ids", "1"), "sadd|widget_ids|1"},
		{"zadd", NewSortedSetAdd("widgets_for_foo_by_bar:wibble", "wobble", "1"), "zadd|widgets_for_foo_by_bar:wibble|wobble|1"},
		{"value with spaces", NewFieldSet("widget:1", "name", "value with spaces"), "hset|widget:1|name|value with spaces"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cmd.String())
		})
	}
}

func TestCommandRedisArgs(t *testing.T) {
	args := NewSortedSetAdd("k", "2.5", "m").RedisArgs()
	assert.Equal(t, []any{"zadd", "k", "2.5", "m"}, args)
}

func TestParseCommandRoundTrip(t *testing.T) {
	for _, wire := range []string{
		"hset|widget:1|color|red",
		"sadd|widget_ids|1",
		"zadd|widgets_for_foo_by_bar:wibble|1330819200|1",
	} {
		cmd, err := ParseCommand(wire)
		require.NoError(t, err)
		assert.Equal(t, wire, cmd.String())
	}
}

func TestParseCommandKeepsTrailingDelimiters(t *testing.T) {
	cmd, err := ParseCommand("hset|widget:1|note|a|b")
	require.NoError(t, err)
	assert.Equal(t, []string{"note", "a|b"}, cmd.Args)
}

func TestParseCommandErrors(t *testing.T) {
	for _, wire := range []string{
		"",
		"del|widget:1",
		"hset",
		"hset|widget:1|only_field",
		"sadd||1",
		"zadd|k|1",
	} {
		_, err := ParseCommand(wire)
		assert.Error(t, err, wire)
	}
}
