// Package cli contains the ioplus command line application.
package cli

import (
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"go.viam.com/ioplus/components/board/genericlinux/buses"
	"go.viam.com/ioplus/components/board/ioplus"
)

// Version is the ioplus utility version.
const Version = "1.3.0"

const (
	configFlag   = "config"
	debugFlag    = "debug"
	simulateFlag = "simulate"
)

// NewApp returns a new app with the ioplus commands, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	return newApp(out, errOut, nil)
}

// newApp builds the application. A non-nil bus replaces the Linux I2C bus.
func newApp(out, errOut io.Writer, bus buses.I2C) *cli.App {
	a := &ioplusCLI{bus: bus}
	app := &cli.App{
		Name:            "ioplus",
		Usage:           "drive Sequent Microsystems IO-PLUS boards",
		UsageText:       "ioplus <id> <command> [arguments...]\n\nWhere: <id> = Board level id = 0..7\nType ioplus -h <command> for more help",
		Version:         Version,
		Writer:          out,
		ErrWriter:       errOut,
		HideHelpCommand: true,
		// Errors are printed by main, never by the library.
		ExitErrHandler: func(*cli.Context, error) {},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    configFlag,
				Aliases: []string{"c"},
				Usage:   "load configuration from `FILE`",
			},
			&cli.BoolFlag{
				Name:  debugFlag,
				Usage: "enable debug logging",
			},
			&cli.BoolFlag{
				Name:  simulateFlag,
				Usage: "run against a simulated board at id 0 instead of the I2C bus",
			},
		},
		Before: a.before,
		After:  a.after,
		Commands: []*cli.Command{
			{
				Name:   "warranty",
				Usage:  "display the warranty",
				Action: warrantyAction,
			},
			{
				Name:   "pinout",
				Usage:  "display the board io connector pinout",
				Action: pinoutAction,
			},
			{
				Name:   "list",
				Usage:  "list all ioplus boards connected, with the number of boards and the id of every board",
				Action: a.listAction,
			},
			a.boardCommand("board", "display the board status and firmware version number", "",
				"ioplus 0 board; display vcc, temperature, firmware version", boardAction),
			a.boardCommand("status", "display every channel of the board in a table", "",
				"ioplus 0 status", statusAction),

			a.boardCommand("relwr", "set relays on/off", "<channel> <on/off> | <value>",
				"ioplus 0 relwr 2 1; set relay #2 on board #0 on", relayWriteAction),
			a.boardCommand("relrd", "read relays status", "[channel]",
				"ioplus 0 relrd 2; read status of relay #2 on board #0", relayReadAction),

			a.boardCommand("gpiowr", "set gpio pins on/off", "<channel> <on/off> | <value>",
				"ioplus 0 gpiowr 2 1; set gpio pin #2 on board #0 to 1 logic", gpioWriteAction),
			a.boardCommand("gpiord", "read gpio status", "[channel]",
				"ioplus 0 gpiord 2; read status of gpio pin #2 on board #0", gpioReadAction),
			a.boardCommand("gpiodirwr", "set gpio pins direction, 0 - output; 1 - input", "<channel> <out/in> | <value>",
				"ioplus 0 gpiodirwr 2 1; set gpio pin #2 on board #0 as input", gpioDirWriteAction),
			a.boardCommand("gpiodirrd", "read gpio direction, 0 - output; 1 - input", "[channel]",
				"ioplus 0 gpiodirrd 2; read direction of gpio pin #2 on board #0", gpioDirReadAction),
			a.boardCommand("gpioedgewr",
				"set gpio pin counting edges, 0 - count disable; 1 - rising edges; 2 - falling edges; 3 - both edges",
				"<channel> <edges>", "ioplus 0 gpioedgewr 2 1; set gpio pin #2 on board #0 to count rising edges",
				edgeWriteAction(ioplus.GPIO)),
			a.boardCommand("gpioedgerd", "read gpio counting edges, 0 - none; 1 - rising; 2 - falling; 3 - both",
				"<channel>", "ioplus 0 gpioedgerd 2; read counting edges of gpio pin #2 on board #0",
				edgeReadAction(ioplus.GPIO)),
			a.boardCommand("gpiocntrd", "read gpio edges count for one gpio input pin", "<channel>",
				"ioplus 0 gpiocntrd 2; read counter of gpio pin #2 on board #0", countReadAction(ioplus.GPIO)),
			a.boardCommand("gpiocntrst", "reset gpio edges count for one gpio input pin", "<channel>",
				"ioplus 0 gpiocntrst 2; reset counter of gpio pin #2 on board #0", countResetAction(ioplus.GPIO)),
			a.boardCommand("gpioencwr",
				"enable / disable gpio quadrature encoder, encoder 1 on gpio 1 and 2, encoder 2 on gpio 3 and 4",
				"<channel> <0/1>", "ioplus 0 gpioencwr 1 1; enable gpio encoder #1 on board #0",
				encoderWriteAction(ioplus.GPIOEncoder)),
			a.boardCommand("gpioencrd", "read gpio quadrature encoder state, 0 - disabled; 1 - enabled", "<channel>",
				"ioplus 0 gpioencrd 1; read state of gpio encoder #1 on board #0", encoderReadAction(ioplus.GPIOEncoder)),
			a.boardCommand("gpiocntencrd", "read gpio encoder count for one channel", "<channel>",
				"ioplus 0 gpiocntencrd 1; read counter of gpio encoder #1 on board #0",
				encoderCountReadAction(ioplus.GPIOEncoder)),
			a.boardCommand("gpiocntencrst", "reset gpio encoder count", "<channel>",
				"ioplus 0 gpiocntencrst 1; reset counter of gpio encoder #1 on board #0",
				encoderCountResetAction(ioplus.GPIOEncoder)),

			a.boardCommand("optrd", "read optocoupled inputs status", "[channel]",
				"ioplus 0 optrd 2; read status of optocoupled input ch #2 on board #0", optoReadAction),
			a.boardCommand("optedgewr",
				"set optocoupled channel counting edges, 0 - count disable; 1 - rising edges; 2 - falling edges; 3 - both edges",
				"<channel> <edges>", "ioplus 0 optedgewr 2 1; set optocoupled channel #2 on board #0 to count rising edges",
				edgeWriteAction(ioplus.OptoInput)),
			a.boardCommand("optedgerd", "read optocoupled counting edges, 0 - none; 1 - rising; 2 - falling; 3 - both",
				"<channel>", "ioplus 0 optedgerd 2; read counting edges of optocoupled channel #2 on board #0",
				edgeReadAction(ioplus.OptoInput)),
			a.boardCommand("optcntrd", "read optocoupled inputs edges count for one pin", "<channel>",
				"ioplus 0 optcntrd 2; read counter of opto input #2 on board #0", countReadAction(ioplus.OptoInput)),
			a.boardCommand("optcntrst", "reset optocoupled inputs edges count for one pin", "<channel>",
				"ioplus 0 optcntrst 2; reset counter of opto input #2 on board #0", countResetAction(ioplus.OptoInput)),
			a.boardCommand("optencwr",
				"enable / disable optocoupled quadrature encoder, encoder 1 on opto ch1 and 2, encoder 2 on ch3 and 4 ...",
				"<channel> <0/1>", "ioplus 0 optencwr 2 1; enable optocoupled encoder #2 on board #0",
				encoderWriteAction(ioplus.OptoEncoder)),
			a.boardCommand("optencrd", "read optocoupled quadrature encoder state, 0 - disabled; 1 - enabled",
				"<channel>", "ioplus 0 optencrd 2; read state of optocoupled encoder #2 on board #0",
				encoderReadAction(ioplus.OptoEncoder)),
			a.boardCommand("optcntencrd", "read optocoupled encoder count for one channel", "<channel>",
				"ioplus 0 optcntencrd 2; read counter of opto encoder #2 on board #0",
				encoderCountReadAction(ioplus.OptoEncoder)),
			a.boardCommand("optcntencrst", "reset optocoupled encoder count", "<channel>",
				"ioplus 0 optcntencrst 2; reset counter of opto encoder #2 on board #0",
				encoderCountResetAction(ioplus.OptoEncoder)),

			a.boardCommand("odrd", "read open drain output pwm value (0% - 100%)", "<channel>",
				"ioplus 0 odrd 2; read pwm value of open drain channel #2 on board #0", odReadAction),
			a.boardCommand("odwr",
				"write open drain output pwm value (0% - 100%), this changes the output of the corresponding DAC channel",
				"<channel> <value>", "ioplus 0 odwr 2 12.5; write pwm 12.5% to open drain channel #2 on board #0",
				odWriteAction),
			a.boardCommand("odfrd", "read open drain pwm frequency in Hz (hardware 3 and newer)", "",
				"ioplus 0 odfrd", odFrequencyReadAction),
			a.boardCommand("odfwr", "write open drain pwm frequency in Hz, 10..64000 (hardware 3 and newer)", "<value>",
				"ioplus 0 odfwr 1000; run the open drain outputs of board #0 at 1kHz", odFrequencyWriteAction),
			a.boardCommand("dacrd", "read DAC voltage value (0 - 10V)", "<channel>",
				"ioplus 0 dacrd 2; read the voltage on DAC channel #2 on board #0", dacReadAction),
			a.boardCommand("dacwr",
				"write DAC output voltage value (0..10V), this changes the output of the corresponding open drain channel",
				"<channel> <value>", "ioplus 0 dacwr 2 2.5; write 2.5V to DAC channel #2 on board #0", dacWriteAction),
			a.boardCommand("adcrd", "read ADC input voltage value (0 - 3.3V)", "<channel>",
				"ioplus 0 adcrd 2; read the voltage input on ADC channel #2 on board #0", adcReadAction),
			a.boardCommand("adcrawrd", "read ADC input raw counts", "<channel>",
				"ioplus 0 adcrawrd 2; read the raw value of ADC channel #2 on board #0", adcRawReadAction),
			a.boardCommand("adccal",
				"calibrate one ADC channel, the calibration must be done in 2 points at min 2V apart",
				"<channel> <value>", "ioplus 0 adccal 2 0.5; calibrate ADC channel #2 on board #0 at 0.5V",
				adcCalibrateAction),
			a.boardCommand("adccalrst", "reset the calibration for one ADC channel", "<channel>",
				"ioplus 0 adccalrst 2; reset the calibration of ADC channel #2 on board #0 to factory default",
				adcCalibrationResetAction),
			a.boardCommand("daccal",
				"calibrate one DAC channel, the calibration must be done in 2 points at min 5V apart",
				"<channel> <value>", "ioplus 0 daccal 2 0.5; calibrate DAC channel #2 on board #0 at 0.5V",
				dacCalibrateAction),
			a.boardCommand("daccalrst", "reset calibration for one DAC channel", "<channel>",
				"ioplus 0 daccalrst 2; reset the calibration of DAC channel #2 on board #0 to factory default",
				dacCalibrationResetAction),

			a.boardCommand("wdtr", "reload the watchdog timer and enable the watchdog if it is disabled", "",
				"ioplus 0 wdtr; reload the watchdog timer on board #0 with the period", watchdogReloadAction),
			a.boardCommand("wdtpwr",
				"set the watchdog period in seconds, reload must be issued in this interval to prevent Raspberry Pi power off",
				"<value>", "ioplus 0 wdtpwr 10; set the watchdog timer period on board #0 to 10 seconds",
				watchdogPeriodWriteAction),
			a.boardCommand("wdtprd", "get the watchdog period in seconds", "",
				"ioplus 0 wdtprd; get the watchdog timer period on board #0", watchdogPeriodReadAction),
			a.boardCommand("wdtipwr",
				"set the watchdog initial period in seconds, used after the Raspberry Pi is powered on",
				"<value>", "ioplus 0 wdtipwr 10; set the watchdog timer initial period on board #0 to 10 seconds",
				watchdogInitPeriodWriteAction),
			a.boardCommand("wdtiprd", "get the watchdog initial period in seconds", "",
				"ioplus 0 wdtiprd; get the watchdog timer initial period on board #0", watchdogInitPeriodReadAction),
			a.boardCommand("wdtopwr",
				"set the watchdog off period in seconds (max 48 days), the time the Raspberry Pi is kept powered off",
				"<value>", "ioplus 0 wdtopwr 10; set the watchdog off interval on board #0 to 10 seconds",
				watchdogOffPeriodWriteAction),
			a.boardCommand("wdtoprd", "get the watchdog off period in seconds", "",
				"ioplus 0 wdtoprd; get the watchdog off period on board #0", watchdogOffPeriodReadAction),
			a.boardCommand("wdtrcrd", "get the watchdog reset count", "",
				"ioplus 0 wdtrcrd; get the watchdog reset count on board #0", watchdogResetCountReadAction),
			a.boardCommand("wdtrcclr", "clear the watchdog reset count", "",
				"ioplus 0 wdtrcclr; clear the watchdog reset count on board #0", watchdogResetCountClearAction),

			a.boardCommand("owbcntrd", "display the number of one wire bus connected sensors", "",
				"ioplus 0 owbcntrd", oneWireCountAction),
			a.boardCommand("owbtrd", "display the temperature readed from a one wire bus connected sensor", "<channel>",
				"ioplus 0 owbtrd 1; display the temperature of one wire sensor #1 on board #0", oneWireTemperatureAction),
			a.boardCommand("owbidrd", "display the 64 bits ROM ID of a one wire bus connected sensor", "<channel>",
				"ioplus 0 owbidrd 1; display the ROM ID of one wire sensor #1 on board #0", oneWireIDAction),
		},
	}
	return app
}

// boardCommand builds a command addressed to one board, invoked as "ioplus <id> name args...".
func (a *ioplusCLI) boardCommand(name, usage, argsUsage, example string, action boardActionFunc) *cli.Command {
	usageText := fmt.Sprintf("ioplus <id> %s", name)
	if argsUsage != "" {
		usageText += " " + argsUsage
	}
	return &cli.Command{
		Name:        name,
		Usage:       usage,
		UsageText:   usageText,
		Description: "Example: " + example,
		Action:      a.withBoard(action),
	}
}
