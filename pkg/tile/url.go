package tile

import (
	"strconv"
	"strings"
)

// BuildURL expands the {z}, {x}, {y} and {s} tokens of a tile URL template.
// {s} cycles through the subdomains a, b and c.
func BuildURL(template string, zoom int, x, y int64) string {
	r := strings.NewReplacer(
		"{z}", strconv.Itoa(zoom),
		"{x}", strconv.FormatInt(x, 10),
		"{y}", strconv.FormatInt(y, 10),
		"{s}", string(rune('a'+((x+y)%3+3)%3)),
	)
	return r.Replace(template)
}
