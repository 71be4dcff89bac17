// Package scoring turns a finished floor into money and formats the numbers
// the HUD and score screen show.
package scoring

import (
	"fmt"
	"math"

	"github.com/leonelquinteros/gotext"
)

const (
	// MaxGain and MaxLoss bound the money a single floor can change.
	MaxGain int64 = 30
	// MaxLoss is never reached: (par-took)/took stays above -1, so a slow
	// floor loses at most WorstPayout. It is kept as the documented limit.
	MaxLoss int64 = -20

	// WorstPayout is the lowest payout the formula can produce.
	WorstPayout int64 = -10

	// TutorialReward is paid for clearing floor 0 regardless of time.
	TutorialReward int64 = 10

	minTime = 0.1
)

// Payout returns the money earned for clearing floor in elapsed seconds
// against a par of estimated seconds. Beating par pays, missing it costs.
func Payout(floor int64, estimated, elapsed float64) int64 {
	if floor == 0 {
		return TutorialReward
	}
	par := math.Max(estimated, minTime)
	took := math.Max(elapsed, minTime)

	delta := int64(math.Round((par - took) / took * 10))
	return min(max(delta, MaxLoss), MaxGain)
}

// FormatTime renders seconds as hh:mm:ss.cc. Negative input is treated as zero.
func FormatTime(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	centis := int64(math.Floor(math.Mod(seconds*100, 100)))
	secs := int64(math.Floor(seconds))
	minutes := secs / 60
	hours := minutes / 60
	return fmt.Sprintf("%02d:%02d:%02d.%02d", hours, minutes%60, secs%60, centis)
}

// CountdownDigit returns the big number shown while warming up: 3, 2 or 1 in
// the last three seconds and 0 (nothing shown) before that.
func CountdownDigit(remaining float64) int {
	switch {
	case remaining <= 1:
		return 1
	case remaining <= 2:
		return 2
	case remaining <= 3:
		return 3
	default:
		return 0
	}
}

// Card is the score screen for one finished floor.
type Card struct {
	Floor      int64
	Elapsed    float64
	Estimated  float64
	StartMoney int64
	EndMoney   int64
}

// NewCard scores a floor and returns the resulting card.
func NewCard(floor int64, estimated, elapsed float64, money int64) Card {
	return Card{
		Floor:      floor,
		Elapsed:    elapsed,
		Estimated:  estimated,
		StartMoney: money,
		EndMoney:   money + Payout(floor, estimated, elapsed),
	}
}

// Payout returns the money change recorded on the card.
func (c Card) Payout() int64 {
	return c.EndMoney - c.StartMoney
}

// Defunded reports whether the run ends with this card.
func (c Card) Defunded() bool {
	return c.EndMoney <= 0
}

// TimeDelta renders how far ahead (+) or behind (-) par the floor was cleared.
func (c Card) TimeDelta() string {
	d := c.Estimated - c.Elapsed
	if d >= 0 {
		return "+" + FormatTime(d)
	}
	return "-" + FormatTime(-d)
}

// MoneyDelta renders the payout as +$n or -$n.
func (c Card) MoneyDelta() string {
	p := c.Payout()
	if p >= 0 {
		return fmt.Sprintf("+$%d", p)
	}
	return fmt.Sprintf("-$%d", -p)
}

// EndMoneyLabel renders the closing balance, or the defunded notice.
func (c Card) EndMoneyLabel() string {
	if c.Defunded() {
		return gotext.Get("DEFUNDED")
	}
	return fmt.Sprintf("$%d", c.EndMoney)
}

// Lines returns the card as text rows for simple displays.
func (c Card) Lines() []string {
	return []string{
		gotext.Get("floor %d", c.Floor),
		gotext.Get("time %s / target %s (%s)", FormatTime(c.Elapsed), FormatTime(c.Estimated), c.TimeDelta()),
		gotext.Get("money $%d %s = %s", c.StartMoney, c.MoneyDelta(), c.EndMoneyLabel()),
	}
}
