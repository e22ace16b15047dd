package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noonOf(t *testing.T) VirtualTime {
	t.Helper()
	return VirtualTimeOf(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
}

func TestBaselineStability(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		descriptor string
		want       int
	}{
		{descriptor: "High, almost stoic", want: 80},
		{descriptor: "calm and grounded", want: 80},
		{descriptor: "Low — fragile under pressure", want: 30},
		{descriptor: "volatile", want: 30},
		{descriptor: "somewhere in between", want: 50},
		{descriptor: "", want: 50},
	}

	for _, tc := range testCases {
		t.Run(tc.descriptor, func(t *testing.T) {
			assert.Equal(t, tc.want, baselineStability(tc.descriptor))
		})
	}
}

func TestComputeProfileEmptyHistory(t *testing.T) {
	t.Parallel()

	ch := Character{ID: "c1", Name: "Mira", StabilityDescriptor: "calm"}
	p := ComputeProfile(ch, nil, noonOf(t))

	assert.Equal(t, 80, p.Stability)
	assert.Equal(t, StabilityStable, p.StabilityStatus)
	assert.Equal(t, TrendStable, p.Trend)
	assert.Equal(t, 1, p.Level)
	assert.Equal(t, "Stranger", p.LevelLabel)
	assert.Equal(t, 0, p.Trust)
	assert.Equal(t, []string{MemoryFocusEmpty}, p.MemoryFocus)
}

func TestComputeProfileStabilityStaysInRange(t *testing.T) {
	t.Parallel()

	at := noonOf(t)
	msgs := []Message{
		NewUserMessage("WHY WOULD YOU DO THAT!!!!!!!!!!", at),
		NewUserMessage("ANSWER ME!!!!!!!!!!", at),
		NewUserMessage("I CANNOT BELIEVE THIS!!!!!!!!!!", at),
		NewUserMessage("STOP IGNORING ME!!!!!!!!!!", at),
		NewUserMessage("SAY SOMETHING!!!!!!!!!!", at),
	}

	ch := Character{ID: "c1", Name: "Mira", StabilityDescriptor: "fragile"}
	p := ComputeProfile(ch, msgs, at)

	assert.Equal(t, 0, p.Stability)
	assert.Equal(t, StabilityCritical, p.StabilityStatus)
	assert.Equal(t, TrendFalling, p.Trend)
	assert.Equal(t, MaskFracturing, p.Mask)
}

func TestComputeProfileComfortRaisesStability(t *testing.T) {
	t.Parallel()

	at := noonOf(t)
	long := "i just wanted to say that you are safe here with me, " +
		"and that everything is going to be okay, i promise"
	msgs := []Message{NewUserMessage(long, at)}

	ch := Character{ID: "c1", Name: "Mira"}
	p := ComputeProfile(ch, msgs, at)

	// Baseline 50, long message +3, comfort words +4.
	assert.Equal(t, 57, p.Stability)
	assert.Equal(t, TrendRising, p.Trend)
	assert.Equal(t, MaskCracking, p.Mask)
}

func TestComputeStabilityNightPenalty(t *testing.T) {
	t.Parallel()

	ch := Character{ID: "c1", Name: "Mira"}
	night := VirtualTimeOf(time.Date(2024, 3, 1, 3, 0, 0, 0, time.UTC))

	stability, trend := computeStability(ch, nil, night)
	assert.Equal(t, 35, stability)
	assert.Equal(t, TrendFalling, trend)

	// 05:00 is outside the night window.
	dawn := VirtualTimeOf(time.Date(2024, 3, 1, 5, 0, 0, 0, time.UTC))
	stability, _ = computeStability(ch, nil, dawn)
	assert.Equal(t, 50, stability)
}

func TestRecentUserMessagesWindow(t *testing.T) {
	t.Parallel()

	at := noonOf(t)
	var msgs []Message
	for _, text := range []string{"one", "two", "three", "four", "five", "six", "seven"} {
		msgs = append(msgs, NewUserMessage(text, at))
		msgs = append(msgs, NewModelMessage("reply to "+text, "Mira", at))
	}
	msgs = append(msgs, NewSystemMessage("Mira left for work.", at))

	recent := recentUserMessages(msgs, recentUserWindow)
	require.Len(t, recent, 5)
	assert.Equal(t, "three", recent[0].Text)
	assert.Equal(t, "seven", recent[4].Text)
}

func TestIsShouted(t *testing.T) {
	t.Parallel()

	assert.True(t, isShouted("STOP IT NOW"))
	assert.False(t, isShouted("STOP"), "short bursts are not shouting")
	assert.False(t, isShouted("Stop it now"))
	assert.False(t, isShouted("12345678"), "no letters, no shout")
}

func TestTrustLadder(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		xp       int
		level    int
		label    string
		maxTrust int
	}{
		{xp: 0, level: 1, label: "Stranger", maxTrust: 100},
		{xp: 100, level: 1, label: "Stranger", maxTrust: 100},
		{xp: 110, level: 2, label: "Acquaintance", maxTrust: 500},
		{xp: 500, level: 2, label: "Acquaintance", maxTrust: 500},
		{xp: 510, level: 3, label: "Confidant", maxTrust: 1500},
		{xp: 1510, level: 4, label: "Intimate", maxTrust: 5000},
		{xp: 5010, level: 5, label: "Kindred", maxTrust: 99999},
	}

	for _, tc := range testCases {
		tier := tierForXP(tc.xp)
		assert.Equal(t, tc.level, tier.Level, "xp=%d", tc.xp)
		assert.Equal(t, tc.label, tier.Label, "xp=%d", tc.xp)
		assert.Equal(t, tc.maxTrust, tier.MaxTrust, "xp=%d", tc.xp)
	}
}

func TestTrustLevelNeverDecreasesAsLogGrows(t *testing.T) {
	t.Parallel()

	at := noonOf(t)
	ch := Character{ID: "c1", Name: "Mira"}

	var msgs []Message
	prevLevel := 0
	for i := 0; i < 60; i++ {
		msgs = append(msgs, NewUserMessage("hello there", at))
		msgs = append(msgs, NewModelMessage("hello", "Mira", at))
		p := ComputeProfile(ch, msgs, at)
		require.GreaterOrEqual(t, p.Level, prevLevel)
		prevLevel = p.Level
	}
	assert.Greater(t, prevLevel, 1)
}

func TestConversationXPIgnoresSystemEvents(t *testing.T) {
	t.Parallel()

	at := noonOf(t)
	msgs := []Message{
		NewUserMessage("hi", at),
		NewSystemMessage("Mira left for work.", at),
		NewModelMessage("hi yourself", "Mira", at),
	}
	assert.Equal(t, 20, conversationXP(msgs))
}

func TestMemoryFocus(t *testing.T) {
	t.Parallel()

	at := noonOf(t)

	t.Run("keeps last three keywords", func(t *testing.T) {
		msgs := []Message{
			NewUserMessage("remember when we walked through the lighthouse garden together", at),
		}
		assert.Equal(t, []string{"lighthouse", "garden", "together"}, MemoryFocus(msgs))
	})

	t.Run("drops stop words and short tokens", func(t *testing.T) {
		msgs := []Message{NewUserMessage("what about that storm", at)}
		assert.Equal(t, []string{"storm"}, MemoryFocus(msgs))
	})

	t.Run("latest user message wins", func(t *testing.T) {
		msgs := []Message{
			NewUserMessage("lighthouse", at),
			NewModelMessage("yes?", "Mira", at),
			NewUserMessage("nevermind, tell me about the harbor", at),
		}
		assert.Equal(t, []string{"nevermind", "tell", "harbor"}, MemoryFocus(msgs))
	})

	t.Run("sentinel when nothing usable", func(t *testing.T) {
		msgs := []Message{NewUserMessage("ok, ya!", at)}
		assert.Equal(t, []string{MemoryFocusEmpty}, MemoryFocus(msgs))
	})

	t.Run("sentinel with no user messages", func(t *testing.T) {
		msgs := []Message{NewSystemMessage("Mira got home.", at)}
		assert.Equal(t, []string{MemoryFocusEmpty}, MemoryFocus(msgs))
	})
}

func TestStripPunctuation(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "dont", stripPunctuation("don't"))
	assert.Equal(t, "harbor", stripPunctuation("harbor!?"))
	assert.Equal(t, "", stripPunctuation("—"))
}

func TestMaskIntegrityBands(t *testing.T) {
	t.Parallel()

	assert.Equal(t, MaskIntact, maskIntegrity(60))
	assert.Equal(t, MaskCracking, maskIntegrity(59))
	assert.Equal(t, MaskCracking, maskIntegrity(30))
	assert.Equal(t, MaskFracturing, maskIntegrity(29))
}

func TestStabilityStatusBands(t *testing.T) {
	t.Parallel()

	assert.Equal(t, StabilityStable, stabilityStatus(40))
	assert.Equal(t, StabilityFragile, stabilityStatus(39))
	assert.Equal(t, StabilityFragile, stabilityStatus(20))
	assert.Equal(t, StabilityCritical, stabilityStatus(19))
}

func TestComfortLexiconMatchesSubstrings(t *testing.T) {
	t.Parallel()

	assert.True(t, containsComfortWord("I'm so SORRY about earlier"))
	assert.True(t, containsComfortWord("thanks for everything"))
	assert.False(t, containsComfortWord("the weather is terrible"))
}

func TestMemoryFocusLowercases(t *testing.T) {
	t.Parallel()

	msgs := []Message{NewUserMessage("The LIGHTHOUSE Keeper", noonOf(t))}
	focus := MemoryFocus(msgs)
	require.Len(t, focus, 2)
	assert.Equal(t, strings.ToLower(focus[0]), focus[0])
}
