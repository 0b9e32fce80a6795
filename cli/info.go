package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"

	"go.viam.com/ioplus/components/board/ioplus"
)

const warranty = `ioplus  Copyright (C) 2016-2020 Sequent Microsystems
	       This program is free software; you can redistribute it and/or modify it
	       under the terms of the GNU Lesser General Public License as published
	       by the Free Software Foundation; either version 3 of the License, or
	       (at your option) any later version.
	       This program is distributed in the hope that it will be useful,
	       but WITHOUT ANY WARRANTY; without even the implied warranty of
	       MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	       GNU Lesser General Public License for more details.
	       You should have received a copy of the GNU Lesser General Public License
	       along with this program. If not, see <http://www.gnu.org/licenses/>.
`

var pinout = [][2]string{
	{"3.3V", "+5V"},
	{"OPTO1", "OPTO VEXT"},
	{"OPTO2", "GND"},
	{"OPTO4", "OPTO3"},
	{"GND", "ADC7"},
	{"ADC6", "ADC8"},
	{"ADC5", "GND"},
	{"ADC3", "ADC4"},
	{"3.3V", "ADC2"},
	{"ADC1", "GND"},
	{"GPIO3", "IO4"},
	{"GPIO1", "IO2"},
	{"GND", "OC3"},
	{"DAC3", "OC4"},
	{"OPTO5", "GND"},
	{"OPTO6", "OC1"},
	{"DAC2", "GND"},
	{"OPTO7", "OC2"},
	{"DAC4", "OPTO8"},
	{"12VEXT", "DAC1"},
}

func warrantyAction(c *cli.Context) error {
	printf(c.App.Writer, "%s", warranty)
	return nil
}

func pinoutAction(c *cli.Context) error {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Signal", "Pin", "Pin", "Signal"})
	for i, row := range pinout {
		t.AppendRow(table.Row{row[0], 2*i + 1, 2*i + 2, row[1]})
	}
	printf(c.App.Writer, "%s\n", t.Render())
	return nil
}

// printBoardList prints the detected stack ids, highest first.
func printBoardList(c *cli.Context, found []int) {
	printf(c.App.Writer, "%d board(s) detected\n", len(found))
	if len(found) == 0 {
		return
	}
	ids := lo.Map(found, func(_ int, i int) string {
		return strconv.Itoa(found[len(found)-1-i])
	})
	printf(c.App.Writer, "Id: %s\n", strings.Join(ids, " "))
}

func boardAction(c *cli.Context, args []string) (boardRun, error) {
	return noArgs(c, args, func(ctx context.Context, s *ioplus.Session) error {
		diag, err := s.Diagnostics(ctx)
		if err != nil {
			return err
		}
		rev := s.Revision()
		printf(c.App.Writer, "Hardware %02d.%02d, Firmware %02d.%02d, CPU temperature %d C, voltage %0.2f V\n",
			rev.HwMajor, rev.HwMinor, rev.FwMajor, rev.FwMinor, diag.TemperatureC, diag.SupplyVolts)
		return nil
	})
}

// statusRow reads every channel of f into a table row labeled label.
func statusRow(label string, f ioplus.Family, read func(ch int) (string, error)) (table.Row, error) {
	row := table.Row{label}
	for _, ch := range f.Channels() {
		v, err := read(ch)
		if err != nil {
			return nil, err
		}
		row = append(row, v)
	}
	return row, nil
}

func bitString(on bool) string {
	return lo.Ternary(on, "on", "off")
}

func statusAction(c *cli.Context, args []string) (boardRun, error) {
	return noArgs(c, args, func(ctx context.Context, s *ioplus.Session) error {
		return printStatus(ctx, c, s)
	})
}

// printStatus renders every channel of the board as a table.
func printStatus(ctx context.Context, c *cli.Context, s *ioplus.Session) error {
	readers := []func() (table.Row, error){
		func() (table.Row, error) {
			return statusRow("relay", ioplus.Relay, func(ch int) (string, error) {
				on, err := s.Relay(ctx, ch)
				return bitString(on), err
			})
		},
		func() (table.Row, error) {
			return statusRow("opto", ioplus.OptoInput, func(ch int) (string, error) {
				on, err := s.Opto(ctx, ch)
				return bitString(on), err
			})
		},
		func() (table.Row, error) {
			return statusRow("gpio", ioplus.GPIO, func(ch int) (string, error) {
				on, err := s.GPIO(ctx, ch)
				return bitString(on), err
			})
		},
		func() (table.Row, error) {
			return statusRow("gpio dir", ioplus.GPIO, func(ch int) (string, error) {
				dir, err := s.GPIODirection(ctx, ch)
				return dir.String(), err
			})
		},
		func() (table.Row, error) {
			return statusRow("adc V", ioplus.ADC, func(ch int) (string, error) {
				v, err := s.ADCVoltage(ctx, ch)
				return strconv.FormatFloat(v, 'f', 3, 64), err
			})
		},
		func() (table.Row, error) {
			return statusRow("dac V", ioplus.DAC, func(ch int) (string, error) {
				v, err := s.DACVoltage(ctx, ch)
				return strconv.FormatFloat(v, 'f', 3, 64), err
			})
		},
		func() (table.Row, error) {
			return statusRow("od %", ioplus.OpenDrain, func(ch int) (string, error) {
				v, err := s.OpenDrainPWM(ctx, ch)
				return strconv.FormatFloat(v, 'f', 2, 64), err
			})
		},
	}

	t := table.NewWriter()
	header := table.Row{""}
	for _, ch := range ioplus.Relay.Channels() {
		header = append(header, ch)
	}
	t.AppendHeader(header)
	for _, read := range readers {
		row, err := read()
		if err != nil {
			return err
		}
		t.AppendRow(row)
	}
	printf(c.App.Writer, "%s\n", t.Render())
	return nil
}
