package domain

// Rank is one row of the static progression table.
type Rank struct {
	Level  int    `json:"level"`
	Title  string `json:"title"`
	MinXP  int    `json:"minXp"`
	Reward string `json:"reward"`
}

// Ranks is ordered by level and MinXP, starting at level 1 with MinXP 0.
var Ranks = []Rank{
	{Level: 1, Title: "Aspirante do Cuidado", MinXP: 0, Reward: "Desbloqueio do App"},
	{Level: 2, Title: "Guardião da Saúde", MinXP: 500, Reward: "+50 Moedas"},
	{Level: 3, Title: "Mestre do Alívio", MinXP: 1500, Reward: "Acesso a perguntas Médias"},
	{Level: 4, Title: "Lenda da Enfermagem", MinXP: 3000, Reward: "Borda Dourada no Perfil"},
	{Level: 5, Title: "Divindade do Plantão", MinXP: 5000, Reward: "Pacotes Lendários na Loja"},
	{Level: 6, Title: "Imortal da Medicina", MinXP: 10000, Reward: "Avatar Animado"},
}

// RankByLevel returns the rank row for level, if any.
func RankByLevel(level int) (Rank, bool) {
	for _, r := range Ranks {
		if r.Level == level {
			return r, true
		}
	}
	return Rank{}, false
}

// RankForXP returns the highest rank whose MinXP is at most xp.
func RankForXP(xp int) Rank {
	best := Ranks[0]
	for _, r := range Ranks {
		if r.MinXP <= xp && r.Level > best.Level {
			best = r
		}
	}
	return best
}

const (
	// StartingCoins is the balance of a freshly registered account.
	StartingCoins = 100
	// StartingLevel is the level of a freshly registered account.
	StartingLevel = 1
)

// NewProfile builds the profile created at registration.
func NewProfile(reg Registration) UserProfile {
	return UserProfile{
		Name:              reg.Name,
		Email:             reg.Email,
		Password:          reg.Password,
		Profession:        reg.Profession,
		Avatar:            reg.Avatar,
		Level:             StartingLevel,
		XP:                0,
		RankTitle:         Ranks[0].Title,
		Coins:             StartingCoins,
		CollectedStickers: []string{},
		AnsweredQuestions: []string{},
	}
}
