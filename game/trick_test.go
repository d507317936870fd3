package game

import "testing"

func testPlayers() []*Player {
	return []*Player{
		NewPlayer("a", "Alice"),
		NewPlayer("b", "Bob"),
		NewPlayer("c", "Carol"),
		NewPlayer("d", "Dave"),
	}
}

func cards(t *testing.T, codes ...string) []Card {
	t.Helper()
	out := make([]Card, len(codes))
	for i, code := range codes {
		out[i] = mustCard(t, code)
	}
	return out
}

func TestEmptyTrickAcceptsAnything(t *testing.T) {
	players := testPlayers()
	trick := NewTrick(players, 0)

	hand := cards(t, "7H", "AS", "JD")
	for _, c := range hand {
		if !trick.IsLegal(players[0], c, hand, TrumpHearts) {
			t.Errorf("%s should be legal on an empty trick", c)
		}
	}
}

func TestMustFollowSuit(t *testing.T) {
	players := testPlayers()
	trick := NewTrick(players, 0)
	trick.Play(players[0], mustCard(t, "7H"))

	hand := cards(t, "KH", "AS", "JD")
	if !trick.IsLegal(players[1], mustCard(t, "KH"), hand, TrumpSpades) {
		t.Error("KH should be legal when hearts are required")
	}
	if trick.IsLegal(players[1], mustCard(t, "AS"), hand, TrumpSpades) {
		t.Error("AS should be illegal while holding hearts")
	}
	if trick.IsLegal(players[1], mustCard(t, "JD"), hand, TrumpSpades) {
		t.Error("JD should be illegal while holding hearts")
	}
}

func TestMustRaiseWithinTrump(t *testing.T) {
	players := testPlayers()
	trick := NewTrick(players, 0)
	trick.Play(players[0], mustCard(t, "10H"))

	// Required suit is trump; holding an overtaking trump forbids ducking.
	hand := cards(t, "JH", "7H", "AS")
	if !trick.IsLegal(players[1], mustCard(t, "JH"), hand, TrumpHearts) {
		t.Error("JH should be legal, it raises")
	}
	if trick.IsLegal(players[1], mustCard(t, "7H"), hand, TrumpHearts) {
		t.Error("7H should be illegal while holding the raising JH")
	}

	// Without anything that raises, any heart goes.
	low := cards(t, "7H", "8H", "AS")
	if !trick.IsLegal(players[1], mustCard(t, "7H"), low, TrumpHearts) {
		t.Error("7H should be legal without a raising trump in hand")
	}
}

func TestVoidMustTrumpAgainstOpponent(t *testing.T) {
	players := testPlayers()
	trick := NewTrick(players, 0)
	trick.Play(players[0], mustCard(t, "AH"))

	// Seat 1 is void of hearts, holds a trump: opponent is taking, the
	// trump is mandatory.
	hand := cards(t, "7S", "8D")
	if !trick.IsLegal(players[1], mustCard(t, "7S"), hand, TrumpSpades) {
		t.Error("7S should be legal")
	}
	if trick.IsLegal(players[1], mustCard(t, "8D"), hand, TrumpSpades) {
		t.Error("8D should be illegal while holding a mandatory trump")
	}
}

func TestVoidPartnerTakingLiftsObligation(t *testing.T) {
	players := testPlayers()
	trick := NewTrick(players, 0)
	trick.Play(players[0], mustCard(t, "AH"))
	trick.Play(players[1], mustCard(t, "8H"))

	// Seat 2's partner (seat 0) is taking: no obligation to trump.
	hand := cards(t, "7S", "8D")
	if !trick.IsLegal(players[2], mustCard(t, "8D"), hand, TrumpSpades) {
		t.Error("8D should be legal when the partner is taking")
	}
	if !trick.IsLegal(players[2], mustCard(t, "7S"), hand, TrumpSpades) {
		t.Error("7S should remain legal too")
	}
}

func TestVoidOfEverythingAnythingGoes(t *testing.T) {
	players := testPlayers()
	trick := NewTrick(players, 0)
	trick.Play(players[0], mustCard(t, "AH"))

	hand := cards(t, "8D", "7C")
	for _, c := range hand {
		if !trick.IsLegal(players[1], c, hand, TrumpSpades) {
			t.Errorf("%s should be legal with no hearts and no trump", c)
		}
	}
}

func TestAlreadyPlayedIsIllegal(t *testing.T) {
	players := testPlayers()
	trick := NewTrick(players, 0)
	trick.Play(players[0], mustCard(t, "AH"))

	if trick.IsLegal(players[0], mustCard(t, "KH"), cards(t, "KH"), TrumpSpades) {
		t.Error("a second card from the same player should be illegal")
	}
}

func TestCanPlayEnforcesTurnOrder(t *testing.T) {
	players := testPlayers()
	trick := NewTrick(players, 2)

	hand := cards(t, "AH")
	if !trick.CanPlay(players[2], hand[0], hand, TrumpSpades) {
		t.Error("starting seat should be allowed to lead")
	}
	if trick.CanPlay(players[0], hand[0], hand, TrumpSpades) {
		t.Error("seat 0 should not play before seat 2")
	}

	trick.Play(players[2], mustCard(t, "7D"))
	diamonds := cards(t, "AD")
	if !trick.CanPlay(players[3], diamonds[0], diamonds, TrumpSpades) {
		t.Error("seat 3 should follow seat 2")
	}
}

func TestWinnerAndPoints(t *testing.T) {
	players := testPlayers()
	trick := NewTrick(players, 0)
	trick.Play(players[0], mustCard(t, "7H"))
	trick.Play(players[1], mustCard(t, "AH"))
	trick.Play(players[2], mustCard(t, "9H"))
	trick.Play(players[3], mustCard(t, "JS"))

	if _, err := NewTrick(players, 0).Winner(TrumpHearts); err == nil {
		t.Error("incomplete trick should not have a winner")
	}

	// Off-trump the ace takes.
	winner, err := trick.Winner(TrumpDiamonds)
	if err != nil {
		t.Fatal(err)
	}
	if winner != 1 {
		t.Errorf("winner = %d, want 1", winner)
	}

	// The lone spade takes under spades trump.
	winner, _ = trick.Winner(TrumpSpades)
	if winner != 3 {
		t.Errorf("winner = %d, want 3", winner)
	}

	// AH=11 under diamonds trump, rest worthless.
	if got := trick.TotalPoints(TrumpDiamonds); got != 11+2 {
		t.Errorf("points = %v, want 13", got)
	}
}

func TestOrderedCardsFollowSeating(t *testing.T) {
	players := testPlayers()
	trick := NewTrick(players, 3)
	trick.Play(players[3], mustCard(t, "7D"))
	trick.Play(players[0], mustCard(t, "8D"))

	got := trick.Cards()
	if len(got) != 2 || got[0].Code() != "7D" || got[1].Code() != "8D" {
		t.Errorf("cards = %v, want [7D 8D]", got)
	}
}
