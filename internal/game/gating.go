package game

import "nursing-album-service/internal/domain"

// EndlessFallbackTopic is used for endless rounds when no topic exists.
const EndlessFallbackTopic = "Geral"

// AllowedDifficulties returns the cumulative difficulty allowlist for a level.
func AllowedDifficulties(level int) []domain.Difficulty {
	allowed := []domain.Difficulty{domain.DifficultyEasy}
	if level >= 3 {
		allowed = append(allowed, domain.DifficultyMedium)
	}
	if level >= 5 {
		allowed = append(allowed, domain.DifficultyHard)
	}
	return allowed
}

func difficultyAllowed(level int, d domain.Difficulty) bool {
	for _, a := range AllowedDifficulties(level) {
		if a == d {
			return true
		}
	}
	return false
}

func answeredSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// AvailableQuestions returns the questions of topic the user may be asked next:
// difficulty unlocked at level and not yet answered. Bank order is preserved.
func AvailableQuestions(topic string, questions []domain.QuizQuestion, level int, answered []string) []domain.QuizQuestion {
	seen := answeredSet(answered)
	var out []domain.QuizQuestion
	for _, q := range questions {
		if q.Topic != topic || !difficultyAllowed(level, q.Difficulty) {
			continue
		}
		if _, ok := seen[q.ID]; ok {
			continue
		}
		out = append(out, q)
	}
	return out
}

// TopicStats is the progress of a user in one topic.
type TopicStats struct {
	Total     int  `json:"total"`
	Answered  int  `json:"answered"`
	Completed bool `json:"completed"`
}

// Percent is the rounded share of answered questions, 0 for an empty topic.
func (s TopicStats) Percent() int {
	if s.Total == 0 {
		return 0
	}
	return roundPercent(s.Answered, s.Total)
}

// StatsForTopic counts questions of topic regardless of level.
// A topic with no questions is never completed.
func StatsForTopic(topic string, questions []domain.QuizQuestion, answered []string) TopicStats {
	seen := answeredSet(answered)
	var stats TopicStats
	for _, q := range questions {
		if q.Topic != topic {
			continue
		}
		stats.Total++
		if _, ok := seen[q.ID]; ok {
			stats.Answered++
		}
	}
	stats.Completed = stats.Total > 0 && stats.Answered >= stats.Total
	return stats
}

// StatsByTopic computes StatsForTopic for every topic, keyed by topic name.
func StatsByTopic(topics []domain.QuizTopic, questions []domain.QuizQuestion, answered []string) map[string]TopicStats {
	out := make(map[string]TopicStats, len(topics))
	for _, t := range topics {
		out[t.Name] = StatsForTopic(t.Name, questions, answered)
	}
	return out
}

// EndlessModeUnlocked is true iff at least one topic exists and every topic is completed.
func EndlessModeUnlocked(topics []domain.QuizTopic, stats map[string]TopicStats) bool {
	if len(topics) == 0 {
		return false
	}
	for _, t := range topics {
		if !stats[t.Name].Completed {
			return false
		}
	}
	return true
}

// PickQuestion draws uniformly among the available questions.
func PickQuestion(available []domain.QuizQuestion, rnd Random) (domain.QuizQuestion, error) {
	if len(available) == 0 {
		return domain.QuizQuestion{}, domain.ErrTopicExhausted
	}
	return available[rnd.Intn(len(available))], nil
}

// PickEndlessTopic chooses a topic uniformly, ignoring gating.
func PickEndlessTopic(topics []domain.QuizTopic, rnd Random) string {
	if len(topics) == 0 {
		return EndlessFallbackTopic
	}
	return topics[rnd.Intn(len(topics))].Name
}
