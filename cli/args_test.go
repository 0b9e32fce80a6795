package cli

import (
	"testing"

	"go.viam.com/test"
)

func TestTranslateArgs(t *testing.T) {
	for _, tc := range []struct {
		name     string
		in       []string
		expected []string
	}{
		{"empty", []string{}, []string{}},
		{"program only", []string{"ioplus"}, []string{"ioplus"}},
		{"board command", []string{"ioplus", "0", "relwr", "2", "on"}, []string{"ioplus", "relwr", "0", "2", "on"}},
		{"board command without args", []string{"ioplus", "3", "board"}, []string{"ioplus", "board", "3"}},
		{"leading zero id", []string{"ioplus", "07", "relrd"}, []string{"ioplus", "relrd", "07"}},
		{"plain command", []string{"ioplus", "list"}, []string{"ioplus", "list"}},
		{"legacy list", []string{"ioplus", "-list"}, []string{"ioplus", "list"}},
		{"legacy warranty", []string{"ioplus", "-warranty"}, []string{"ioplus", "warranty"}},
		{"legacy pinout", []string{"ioplus", "--pinout"}, []string{"ioplus", "pinout"}},
		{"command help", []string{"ioplus", "-h", "relwr"}, []string{"ioplus", "relwr", "--help"}},
		{"bare help", []string{"ioplus", "-h"}, []string{"ioplus", "-h"}},
		{"version", []string{"ioplus", "-v"}, []string{"ioplus", "-v"}},
		{
			"global flags kept in front",
			[]string{"ioplus", "--debug", "1", "dacwr", "2", "2.5"},
			[]string{"ioplus", "--debug", "dacwr", "1", "2", "2.5"},
		},
		{
			"config value not taken for an id",
			[]string{"ioplus", "--config", "7", "0", "relrd"},
			[]string{"ioplus", "--config", "7", "relrd", "0"},
		},
		{
			"short config flag",
			[]string{"ioplus", "-c", "ioplus.yaml", "--simulate", "0", "board"},
			[]string{"ioplus", "-c", "ioplus.yaml", "--simulate", "board", "0"},
		},
		{"id without command", []string{"ioplus", "0"}, []string{"ioplus", "0"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			test.That(t, TranslateArgs(tc.in), test.ShouldResemble, tc.expected)
		})
	}
}
