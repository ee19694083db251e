package game

import (
	"math"

	"nursing-album-service/internal/domain"
)

const (
	streakBonusPerAnswer = 5
	streakBonusCap       = 50
	endlessCoinFactor    = 3
	endlessXPFactor      = 2
)

// Reward is what a single correct answer is worth.
type Reward struct {
	XP    int `json:"xp"`
	Coins int `json:"coins"`
}

// BaseReward is the XP value of a question by difficulty.
func BaseReward(d domain.Difficulty) int {
	switch d {
	case domain.DifficultyMedium:
		return 25
	case domain.DifficultyHard:
		return 50
	default:
		return 10
	}
}

// ComputeReward applies the streak bonus and the endless multipliers.
// streak is the count of consecutive correct answers before this one.
// Coins are floored only after every multiplier has been applied.
func ComputeReward(d domain.Difficulty, streak int, endless bool) Reward {
	if streak < 0 {
		streak = 0
	}
	base := BaseReward(d)
	coins := float64(base)/2 + float64(min(streak*streakBonusPerAnswer, streakBonusCap))
	xp := base
	if endless {
		coins *= endlessCoinFactor
		xp *= endlessXPFactor
	}
	return Reward{XP: xp, Coins: int(math.Floor(coins))}
}

// AnswerResult is the outcome of ApplyCorrectAnswer.
type AnswerResult struct {
	User   domain.UserProfile
	Reward Reward
	Streak int
	// LevelUp is set when the answer advanced the user one rank.
	LevelUp *domain.Rank
}

// ApplyCorrectAnswer credits a correct answer and returns the updated user.
//
// The reward is granted even when the question was already answered; only the
// history entry is idempotent. Level-up advances at most one rank per call.
// Endless-mode questions are never recorded in the answered history.
func ApplyCorrectAnswer(user domain.UserProfile, q domain.QuizQuestion, streak int, endless bool) AnswerResult {
	out := user.Clone()
	reward := ComputeReward(q.Difficulty, streak, endless)

	out.XP += reward.XP
	out.Coins += reward.Coins
	if !endless && !out.HasAnswered(q.ID) {
		out.AnsweredQuestions = append(out.AnsweredQuestions, q.ID)
	}

	result := AnswerResult{User: out, Reward: reward, Streak: max(streak, 0) + 1}
	if next, ok := domain.RankByLevel(out.Level + 1); ok && out.XP >= next.MinXP {
		result.User.Level = next.Level
		result.User.RankTitle = next.Title
		result.LevelUp = &next
	}
	return result
}

// ApplyWrongAnswer returns the streak after a wrong answer. The user is untouched.
func ApplyWrongAnswer() int {
	return 0
}
