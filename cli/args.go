package cli

import (
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// legacyCommands are the commands older releases took as flags, e.g. "ioplus -list".
var legacyCommands = []string{"list", "pinout", "warranty"}

// TranslateArgs rewrites a command line written as "ioplus [flags] <id> <command> [args...]"
// into the "ioplus [flags] <command> <id> [args...]" order the app parses. It also accepts
// the legacy "-list", "-pinout" and "-warranty" forms and "-h <command>".
func TranslateArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}
	out := []string{args[0]}
	i := 1
	for ; i < len(args) && strings.HasPrefix(args[i], "-"); i++ {
		arg := args[i]
		name := strings.TrimLeft(arg, "-")
		switch {
		case lo.Contains(legacyCommands, name):
			return append(append(out, name), args[i+1:]...)
		case (name == "h" || name == "help") && i+1 < len(args):
			return append(out, args[i+1], "--help")
		case name == configFlag || name == "c":
			out = append(out, arg)
			if i+1 < len(args) {
				i++
				out = append(out, args[i])
			}
		default:
			out = append(out, arg)
		}
	}
	rest := args[i:]
	if len(rest) >= 2 {
		if _, err := strconv.Atoi(rest[0]); err == nil {
			return append(append(out, rest[1], rest[0]), rest[2:]...)
		}
	}
	return append(out, rest...)
}
