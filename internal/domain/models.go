package domain

import "strings"

// Rarity is a sticker tier. It drives both draw probability and duplicate sale price.
type Rarity string

const (
	RarityCommon    Rarity = "Comum"
	RarityRare      Rarity = "Rara"
	RarityEpic      Rarity = "Épica"
	RarityLegendary Rarity = "Lendária"
)

// Difficulty of a quiz question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Fácil"
	DifficultyMedium Difficulty = "Médio"
	DifficultyHard   Difficulty = "Difícil"
)

// Sticker is a collectible card in the catalog.
type Sticker struct {
	ID          string `json:"id"`
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description" validate:"max=500"`
	ImageURL    string `json:"imageUrl"`
	Rarity      Rarity `json:"rarity" validate:"required,oneof=Comum Rara Épica Lendária"`
	Category    string `json:"category"`
	IsAnimated  bool   `json:"isAnimated,omitempty"`
}

// QuizTopic groups questions. Name is the join key used by questions and sticker categories.
type QuizTopic struct {
	ID   string `json:"id"`
	Name string `json:"name" validate:"required,max=120"`
	Icon string `json:"icon" validate:"required"`
}

// QuizQuestion is a multiple choice question with exactly four options.
type QuizQuestion struct {
	ID           string     `json:"id"`
	Question     string     `json:"question" validate:"required"`
	Options      []string   `json:"options" validate:"len=4,dive,required"`
	CorrectIndex int        `json:"correctIndex" validate:"gte=0,lte=3"`
	Explanation  string     `json:"explanation"`
	Difficulty   Difficulty `json:"difficulty" validate:"required,oneof=Fácil Médio Difícil"`
	Topic        string     `json:"topic" validate:"required"`
}

// IsCorrect reports whether choice is the right option index.
func (q QuizQuestion) IsCorrect(choice int) bool {
	return choice == q.CorrectIndex && choice >= 0 && choice < len(q.Options)
}

// StorePack is a purchasable bundle of randomly drawn stickers.
// Chances are percentages; whatever the three leave over falls to Common.
type StorePack struct {
	ID              string  `json:"id"`
	Name            string  `json:"name" validate:"required,max=120"`
	Description     string  `json:"description" validate:"max=500"`
	Price           int     `json:"price" validate:"gte=0"`
	StickersCount   int     `json:"stickersCount" validate:"gt=0,lte=50"`
	LegendaryChance float64 `json:"legendaryChance" validate:"gte=0,lte=100"`
	EpicChance      float64 `json:"epicChance" validate:"gte=0,lte=100"`
	RareChance      float64 `json:"rareChance" validate:"gte=0,lte=100"`
	Color           string  `json:"color"`
}

// UserProfile is the aggregate every engine operates on.
type UserProfile struct {
	Name              string   `json:"name"`
	Email             string   `json:"email"`
	Password          string   `json:"password,omitempty"`
	Profession        string   `json:"profession"`
	Avatar            string   `json:"avatar"`
	Level             int      `json:"level"`
	XP                int      `json:"xp"`
	RankTitle         string   `json:"rankTitle"`
	Coins             int      `json:"coins"`
	CollectedStickers []string `json:"collectedStickers"`
	AnsweredQuestions []string `json:"answeredQuestions"`
}

// Clone returns a deep copy so engines never alias the caller's slices.
func (u UserProfile) Clone() UserProfile {
	out := u
	out.CollectedStickers = append([]string(nil), u.CollectedStickers...)
	out.AnsweredQuestions = append([]string(nil), u.AnsweredQuestions...)
	return out
}

// Public strips the password before the profile leaves the service.
func (u UserProfile) Public() UserProfile {
	out := u.Clone()
	out.Password = ""
	return out
}

// HasAnswered reports whether questionID is in the answered history.
func (u UserProfile) HasAnswered(questionID string) bool {
	for _, id := range u.AnsweredQuestions {
		if id == questionID {
			return true
		}
	}
	return false
}

// Registration is the input to account creation.
type Registration struct {
	Name       string `json:"name" validate:"required,max=120"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	Profession string `json:"profession"`
	Avatar     string `json:"avatar"`
}

// Catalog bundles the read-only reference data used by the engines.
type Catalog struct {
	Stickers  []Sticker      `json:"stickers"`
	Questions []QuizQuestion `json:"questions"`
	Topics    []QuizTopic    `json:"topics"`
	Packs     []StorePack    `json:"packs"`
}

// Sticker looks up a sticker by id.
func (c Catalog) Sticker(id string) (Sticker, bool) {
	for _, s := range c.Stickers {
		if s.ID == id {
			return s, true
		}
	}
	return Sticker{}, false
}

// Pack looks up a store pack by id.
func (c Catalog) Pack(id string) (StorePack, bool) {
	for _, p := range c.Packs {
		if p.ID == id {
			return p, true
		}
	}
	return StorePack{}, false
}

// NormalizeEmail returns the identity key for an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
