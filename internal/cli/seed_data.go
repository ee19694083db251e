package cli

import (
	"nursing-album-service/internal/config"
	"nursing-album-service/internal/domain"
)

// starterCatalog is the content a fresh deployment starts with.
func starterCatalog() domain.Catalog {
	return domain.Catalog{
		Topics: []domain.QuizTopic{
			{ID: "t1", Name: "Farmacologia", Icon: "💊"},
			{ID: "t2", Name: "Anatomia e Fisiologia", Icon: "🫀"},
			{ID: "t3", Name: "Ética e Legislação", Icon: "⚖️"},
			{ID: "t4", Name: "Urgência e Emergência", Icon: "🚑"},
			{ID: "t5", Name: "Saúde Pública", Icon: "🌍"},
			{ID: "t6", Name: "Centro Cirúrgico", Icon: "😷"},
			{ID: "t7", Name: "Humanização", Icon: "🤝"},
		},
		Questions: []domain.QuizQuestion{
			{
				ID:         "welcome-q1",
				Topic:      "Humanização",
				Difficulty: domain.DifficultyEasy,
				Question:   "Bem-vindo ao Lendas da Enfermagem! Qual é o principal objetivo deste app?",
				Options: []string{
					"Aprender brincando e colecionar conquistas",
					"Apenas passar o tempo",
					"Decorar textos longos",
					"Nenhuma das anteriores",
				},
				CorrectIndex: 0,
				Explanation:  "O app une gamificação e ensino para tornar o aprendizado da enfermagem envolvente.",
			},
		},
		Stickers: []domain.Sticker{
			{
				ID:          "1",
				Name:        "Bem-vindo(a)!",
				Description: "Sua primeira figurinha. O início da sua jornada lendária.",
				ImageURL:    "https://cdn-icons-png.flaticon.com/512/3063/3063823.png",
				Rarity:      domain.RarityCommon,
				Category:    "Geral",
			},
			{
				ID:          "2",
				Name:        "Batimentos Cardíacos",
				Description: "Sinal vital essencial para a vida.",
				ImageURL:    "https://media.giphy.com/media/3o7TKSjRrfIPjeiVyM/giphy.gif",
				Rarity:      domain.RarityEpic,
				Category:    "Anatomia e Fisiologia",
				IsAnimated:  true,
			},
		},
		Packs: []domain.StorePack{
			{
				ID:              "pack-starter",
				Name:            "Pacote Inicial",
				Description:     "Comece sua coleção aqui.",
				Price:           50,
				StickersCount:   3,
				LegendaryChance: 5,
				EpicChance:      15,
				RareChance:      40,
				Color:           "bg-blue-500",
			},
		},
	}
}

// adminProfile is the seeded administrator account.
func adminProfile() domain.UserProfile {
	return domain.UserProfile{
		Name:              "Administrador",
		Email:             config.DefaultAdminEmail,
		Password:          "123",
		Profession:        "Gestão",
		Avatar:            "🛡️",
		Level:             99,
		XP:                99999,
		RankTitle:         "Mestre do Sistema",
		Coins:             99999,
		CollectedStickers: []string{},
		AnsweredQuestions: []string{},
	}
}
