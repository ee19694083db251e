package game

import (
	"testing"

	"nursing-album-service/internal/domain"
)

func TestComputeReward(t *testing.T) {
	cases := []struct {
		name    string
		diff    domain.Difficulty
		streak  int
		endless bool
		want    Reward
	}{
		{"easy no streak", domain.DifficultyEasy, 0, false, Reward{XP: 10, Coins: 5}},
		{"medium floors half coin", domain.DifficultyMedium, 0, false, Reward{XP: 25, Coins: 12}},
		{"hard streak capped", domain.DifficultyHard, 10, false, Reward{XP: 50, Coins: 75}},
		{"hard streak over cap", domain.DifficultyHard, 40, false, Reward{XP: 50, Coins: 75}},
		{"hard endless", domain.DifficultyHard, 10, true, Reward{XP: 100, Coins: 225}},
		{"medium endless floors after multiply", domain.DifficultyMedium, 1, true, Reward{XP: 50, Coins: 52}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeReward(tc.diff, tc.streak, tc.endless)
			if got != tc.want {
				t.Fatalf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}

func TestApplyCorrectAnswerCreditsAndRecords(t *testing.T) {
	user := newUser()
	q := domain.QuizQuestion{ID: "q1", Difficulty: domain.DifficultyEasy, Options: fourOptions(), CorrectIndex: 0}

	res := ApplyCorrectAnswer(user, q, 0, false)
	if res.User.XP != 10 || res.User.Coins != 105 {
		t.Fatalf("expected xp 10 coins 105, got xp %d coins %d", res.User.XP, res.User.Coins)
	}
	if res.Streak != 1 {
		t.Fatalf("expected streak 1, got %d", res.Streak)
	}
	if len(res.User.AnsweredQuestions) != 1 || res.User.AnsweredQuestions[0] != "q1" {
		t.Fatalf("expected q1 recorded, got %v", res.User.AnsweredQuestions)
	}
	if len(user.AnsweredQuestions) != 0 {
		t.Fatalf("input user must not be mutated")
	}

	again := ApplyCorrectAnswer(res.User, q, res.Streak, false)
	if len(again.User.AnsweredQuestions) != 1 {
		t.Fatalf("expected history to stay deduplicated, got %v", again.User.AnsweredQuestions)
	}
	if again.User.XP != 20 {
		t.Fatalf("expected repeated answer to still be rewarded, xp=%d", again.User.XP)
	}
}

func TestApplyCorrectAnswerEndlessSkipsHistory(t *testing.T) {
	q := domain.QuizQuestion{ID: "supreme-1", Difficulty: domain.DifficultyHard}
	res := ApplyCorrectAnswer(newUser(), q, 0, true)
	if len(res.User.AnsweredQuestions) != 0 {
		t.Fatalf("endless questions must not enter history, got %v", res.User.AnsweredQuestions)
	}
	if res.User.XP != 100 || res.User.Coins != 100+75 {
		t.Fatalf("unexpected endless reward xp=%d coins=%d", res.User.XP, res.User.Coins)
	}
}

func TestLevelUpSingleStep(t *testing.T) {
	user := newUser()
	user.XP = 490
	q := domain.QuizQuestion{ID: "q1", Difficulty: domain.DifficultyEasy}

	res := ApplyCorrectAnswer(user, q, 0, false)
	if res.LevelUp == nil || res.User.Level != 2 || res.User.RankTitle != domain.Ranks[1].Title {
		t.Fatalf("expected level up to 2, got level %d title %q", res.User.Level, res.User.RankTitle)
	}

	// Jumping past several thresholds still advances a single rank.
	user = newUser()
	user.XP = 4990
	res = ApplyCorrectAnswer(user, domain.QuizQuestion{ID: "q2", Difficulty: domain.DifficultyHard}, 0, true)
	if res.User.Level != 2 {
		t.Fatalf("expected one rank per answer, got level %d", res.User.Level)
	}
}

func TestNoLevelUpBelowThreshold(t *testing.T) {
	user := newUser()
	user.XP = 400
	res := ApplyCorrectAnswer(user, domain.QuizQuestion{ID: "q1", Difficulty: domain.DifficultyEasy}, 0, false)
	if res.LevelUp != nil || res.User.Level != 1 {
		t.Fatalf("unexpected level up: %+v", res.User)
	}
}

func TestRankInvariantHoldsAlongProgression(t *testing.T) {
	user := newUser()
	q := domain.QuizQuestion{ID: "q", Difficulty: domain.DifficultyMedium}
	for i := 0; i < 500; i++ {
		user = ApplyCorrectAnswer(user, q, i%12, false).User
		want := domain.RankForXP(user.XP)
		if user.Level != want.Level || user.RankTitle != want.Title {
			t.Fatalf("after %d answers xp=%d: level %d title %q, want %d %q", i+1, user.XP, user.Level, user.RankTitle, want.Level, want.Title)
		}
	}
}

func TestApplyWrongAnswerResetsStreak(t *testing.T) {
	if ApplyWrongAnswer() != 0 {
		t.Fatalf("expected streak reset")
	}
}

func newUser() domain.UserProfile {
	return domain.NewProfile(domain.Registration{Name: "Ana", Email: "ana@example.com", Password: "pw"})
}

func fourOptions() []string {
	return []string{"a", "b", "c", "d"}
}
