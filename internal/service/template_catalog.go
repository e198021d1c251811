package service

import "mingus-outlook/internal/domain"

func whenNum(field string, op domain.Operator, v float64) domain.Condition {
	return domain.Condition{Field: field, Op: op, Value: domain.NumberFact(v)}
}

func whenText(field string, op domain.Operator, v string) domain.Condition {
	return domain.Condition{Field: field, Op: op, Value: domain.TextFact(v)}
}

// DefaultTemplates es el catalogo embebido. TEMPLATE_CATALOG_PATH lo reemplaza completo.
func DefaultTemplates() []domain.ContentTemplate {
	return []domain.ContentTemplate{
		// Insights genericos: sin condiciones, siempre elegibles desde budget.
		{
			ID: "ins-career-001", Kind: domain.TemplateKindInsight, MinTier: domain.TierBudget, Category: domain.CategoryCareer,
			Body: "Small wins compound. Spend ten minutes today sharpening one line of your resume so it is ready when opportunity shows up.",
		},
		{
			ID: "ins-financial-001", Kind: domain.TemplateKindInsight, MinTier: domain.TierBudget, Category: domain.CategoryFinancial,
			Body: "As a {segment}, your money plan should fit this season of your life. Look over the last three days of spending and name one thing you would change.",
		},
		{
			ID: "ins-relationship-001", Kind: domain.TemplateKindInsight, MinTier: domain.TierBudget, Category: domain.CategoryRelationship,
			Body: "Strong relationships run on small deposits. Reach out to one person today just to say you are thinking of them.",
		},
		{
			ID: "ins-wellness-001", Kind: domain.TemplateKindInsight, MinTier: domain.TierBudget, Category: domain.CategoryWellness,
			Body: "Your body keeps the score on stress. Ten minutes of movement today protects both your health and your wallet.",
		},

		// Insights condicionados por actividad.
		{
			ID: "ins-financial-low", Kind: domain.TemplateKindInsight, MinTier: domain.TierBudget, Category: domain.CategoryFinancial,
			Body:       "Your financial score is {financial_score}. Pick one bill to put on autopay today and give yourself some breathing room.",
			Conditions: []domain.Condition{whenNum(domain.FactFinancialScore, domain.OpLessThan, 40)},
		},
		{
			ID: "ins-financial-legacy", Kind: domain.TemplateKindInsight, MinTier: domain.TierBudget, Category: domain.CategoryFinancial,
			Body:              "Generational wealth is built one intentional decision at a time. With a financial score of {financial_score}, you are in a position to start a dedicated investing habit.",
			Conditions:        []domain.Condition{whenNum(domain.FactFinancialScore, domain.OpGreaterThan, 50)},
			CulturalRelevance: true,
		},
		{
			ID: "ins-financial-high", Kind: domain.TemplateKindInsight, MinTier: domain.TierMid, Category: domain.CategoryFinancial,
			Body:       "A financial score of {financial_score} means your foundation is solid. This is a good week to raise your automatic savings rate by one percent.",
			Conditions: []domain.Condition{whenNum(domain.FactFinancialScore, domain.OpGreaterOrEqual, 70)},
		},
		{
			ID: "ins-wellness-low", Kind: domain.TemplateKindInsight, MinTier: domain.TierBudget, Category: domain.CategoryWellness,
			Body:       "Your wellness check-ins have been low lately. Protect your energy today: one glass of water, one short walk, one early night.",
			Conditions: []domain.Condition{whenNum(domain.FactWellnessScore, domain.OpLessThan, 40), whenNum(domain.FactWellnessScore, domain.OpGreaterThan, 0)},
		},
		{
			ID: "ins-wellness-streak", Kind: domain.TemplateKindInsight, MinTier: domain.TierBudget, Category: domain.CategoryWellness,
			Body:       "{streak} days of checking in. Consistency like that is a wellness habit in itself.",
			Conditions: []domain.Condition{whenNum(domain.FactStreakCount, domain.OpGreaterOrEqual, 7)},
		},
		{
			ID: "ins-relationship-married", Kind: domain.TemplateKindInsight, MinTier: domain.TierMid, Category: domain.CategoryRelationship,
			Body:       "Couples who talk about money weekly argue about it less. Set fifteen minutes this week for a calm money check-in with your spouse.",
			Conditions: []domain.Condition{whenText(domain.FactRelationshipStatus, domain.OpEqual, string(domain.RelationshipMarried))},
		},
		{
			ID: "ins-relationship-dating", Kind: domain.TemplateKindInsight, MinTier: domain.TierBudget, Category: domain.CategoryRelationship,
			Body:       "Dating well does not require spending big. Plan one meaningful, low-cost date idea this week.",
			Conditions: []domain.Condition{whenText(domain.FactRelationshipStatus, domain.OpEqual, string(domain.RelationshipDating))},
		},
		{
			ID: "ins-career-network", Kind: domain.TemplateKindInsight, MinTier: domain.TierProfessional, Category: domain.CategoryCareer,
			Body:              "Your network is a career asset. Reconnect with one professional from your community this week and ask what they are working on.",
			CulturalRelevance: true,
		},
		{
			ID: "ins-career-risk", Kind: domain.TemplateKindInsight, MinTier: domain.TierMid, Category: domain.CategoryCareer,
			Body:       "Your career score is {career_score}. Spend twenty minutes today mapping the skills your next role will expect.",
			Conditions: []domain.Condition{whenNum(domain.FactCareerScore, domain.OpLessThan, 50), whenNum(domain.FactCareerScore, domain.OpGreaterThan, 0)},
		},

		// Insights por ciudad.
		{
			ID: "ins-city-atlanta-financial", Kind: domain.TemplateKindInsight, MinTier: domain.TierMid, Category: domain.CategoryFinancial,
			Body:              "{location} has one of the fastest growing Black-owned business scenes in the country. With a financial score of {financial_score}, consider putting some of this month's dining budget toward local businesses you believe in.",
			Conditions:        []domain.Condition{whenNum(domain.FactFinancialScore, domain.OpGreaterThan, 50)},
			CulturalRelevance: true,
			CityKey:           "Atlanta",
		},
		{
			ID: "ins-city-atlanta-career", Kind: domain.TemplateKindInsight, MinTier: domain.TierMid, Category: domain.CategoryCareer,
			Body:              "Tech and film keep growing across metro {location}. Look up one local professional meetup this month and put it on your calendar.",
			CulturalRelevance: true,
			CityKey:           "Atlanta",
		},
		{
			ID: "ins-city-houston-financial", Kind: domain.TemplateKindInsight, MinTier: domain.TierMid, Category: domain.CategoryFinancial,
			Body:    "Cost of living in {location} is still below most major metros. Capture that advantage by sending the difference straight to savings.",
			CityKey: "Houston",
		},
		{
			ID: "ins-city-dc-career", Kind: domain.TemplateKindInsight, MinTier: domain.TierMid, Category: domain.CategoryCareer,
			Body:              "{location} rewards credentials. Check whether your employer covers one certification that would move your career forward.",
			CulturalRelevance: true,
			CityKey:           "Washington",
		},
		{
			ID: "ins-city-newyork-financial", Kind: domain.TemplateKindInsight, MinTier: domain.TierMid, Category: domain.CategoryFinancial,
			Body:    "Rent in {location} takes a big bite. Review whether your housing cost is under a third of take-home pay and set a plan if it is not.",
			CityKey: "New York",
		},
		{
			ID: "ins-city-chicago-wellness", Kind: domain.TemplateKindInsight, MinTier: domain.TierMid, Category: domain.CategoryWellness,
			Body:    "The lakefront in {location} is free therapy. Take a walk along it this week and leave your phone in your pocket.",
			CityKey: "Chicago",
		},
		{
			ID: "ins-city-dallas-career", Kind: domain.TemplateKindInsight, MinTier: domain.TierMid, Category: domain.CategoryCareer,
			Body:    "Corporate relocations keep landing in {location}. Update your profile so recruiters find you first.",
			CityKey: "Dallas",
		},
		{
			ID: "ins-city-charlotte-financial", Kind: domain.TemplateKindInsight, MinTier: domain.TierMid, Category: domain.CategoryFinancial,
			Body:              "{location} is a banking town. Ask your bank about a fee-free account upgrade and stop paying for the basics.",
			CulturalRelevance: true,
			CityKey:           "Charlotte",
		},

		// Teasers para mañana.
		{
			ID: "tsr-generic-001", Kind: domain.TemplateKindTeaser, MinTier: domain.TierBudget, Category: domain.CategoryFinancial,
			Body: "Tomorrow: a money move that takes less than five minutes.",
		},
		{
			ID: "tsr-streak", Kind: domain.TemplateKindTeaser, MinTier: domain.TierBudget, Category: domain.CategoryWellness,
			Body:       "Tomorrow is day {next_streak} of your streak. Come back and keep it alive.",
			Conditions: []domain.Condition{whenNum(domain.FactStreakCount, domain.OpGreaterOrEqual, 3)},
		},
		{
			ID: "tsr-mid-career", Kind: domain.TemplateKindTeaser, MinTier: domain.TierMid, Category: domain.CategoryCareer,
			Body: "Tomorrow: your personalized career risk check-in.",
		},
		{
			ID: "tsr-pro-networth", Kind: domain.TemplateKindTeaser, MinTier: domain.TierProfessional, Category: domain.CategoryFinancial,
			Body: "Tomorrow: a deep dive into your net worth trajectory for the next twelve months.",
		},
		{
			ID: "tsr-city-atlanta", Kind: domain.TemplateKindTeaser, MinTier: domain.TierMid, Category: domain.CategoryWellness,
			Body:              "Tomorrow: free and low-cost ways to recharge around {location} this weekend.",
			CulturalRelevance: true,
			CityKey:           "Atlanta",
		},
		{
			ID: "tsr-city-houston", Kind: domain.TemplateKindTeaser, MinTier: domain.TierMid, Category: domain.CategoryFinancial,
			Body:    "Tomorrow: how {location} property taxes affect your homebuying budget.",
			CityKey: "Houston",
		},
	}
}

// DefaultQuickActions es el pool embebido de quick actions.
func DefaultQuickActions() []domain.QuickAction {
	return []domain.QuickAction{
		{ID: "fin-easy-review", Title: "Review yesterday's spending", Description: "Open your transactions and tag anything unexpected.", Category: domain.CategoryFinancial, Difficulty: domain.DifficultyEasy, EstimatedMinutes: 5, TierOrigin: domain.TierBudget},
		{ID: "fin-easy-save5", Title: "Move $5 to savings", Description: "Small transfers build the habit before the balance.", Category: domain.CategoryFinancial, Difficulty: domain.DifficultyEasy, EstimatedMinutes: 2, TierOrigin: domain.TierBudget},
		{ID: "fin-med-bill", Title: "Compare one recurring bill", Description: "Check one subscription or utility against a cheaper option.", Category: domain.CategoryFinancial, Difficulty: domain.DifficultyMedium, EstimatedMinutes: 20, TierOrigin: domain.TierMid},
		{ID: "fin-hard-rebalance", Title: "Rebalance your investments", Description: "Compare your allocation to your target and adjust contributions.", Category: domain.CategoryFinancial, Difficulty: domain.DifficultyHard, EstimatedMinutes: 45, TierOrigin: domain.TierProfessional},

		{ID: "well-easy-walk", Title: "Take a 10-minute walk", Description: "Step outside and move without a goal.", Category: domain.CategoryWellness, Difficulty: domain.DifficultyEasy, EstimatedMinutes: 10, TierOrigin: domain.TierBudget},
		{ID: "well-easy-breathe", Title: "Two minutes of box breathing", Description: "Inhale four, hold four, exhale four, hold four.", Category: domain.CategoryWellness, Difficulty: domain.DifficultyEasy, EstimatedMinutes: 2, TierOrigin: domain.TierBudget},
		{ID: "well-med-meals", Title: "Plan three meals", Description: "Decide tomorrow's meals so takeout is a choice, not a default.", Category: domain.CategoryWellness, Difficulty: domain.DifficultyMedium, EstimatedMinutes: 15, TierOrigin: domain.TierMid},
		{ID: "well-hard-workout", Title: "Block a 30-minute workout", Description: "Put it on the calendar and treat it like a meeting.", Category: domain.CategoryWellness, Difficulty: domain.DifficultyHard, EstimatedMinutes: 30, TierOrigin: domain.TierProfessional},

		{ID: "rel-easy-text", Title: "Send a check-in text", Description: "Let someone know you are thinking about them.", Category: domain.CategoryRelationship, Difficulty: domain.DifficultyEasy, EstimatedMinutes: 2, TierOrigin: domain.TierBudget},
		{ID: "rel-med-date", Title: "Plan a no-spend date", Description: "Pick an activity that costs nothing and put it on the calendar.", Category: domain.CategoryRelationship, Difficulty: domain.DifficultyMedium, EstimatedMinutes: 15, TierOrigin: domain.TierMid},
		{ID: "rel-hard-money-talk", Title: "Hold a money talk", Description: "Share one financial goal with your partner or a trusted friend.", Category: domain.CategoryRelationship, Difficulty: domain.DifficultyHard, EstimatedMinutes: 30, TierOrigin: domain.TierProfessional},

		{ID: "car-easy-skill", Title: "Add one skill to your profile", Description: "Update LinkedIn with something you learned this year.", Category: domain.CategoryCareer, Difficulty: domain.DifficultyEasy, EstimatedMinutes: 5, TierOrigin: domain.TierBudget},
		{ID: "car-med-salary", Title: "Research your salary range", Description: "Look up what your role pays in your city.", Category: domain.CategoryCareer, Difficulty: domain.DifficultyMedium, EstimatedMinutes: 20, TierOrigin: domain.TierMid},
		{ID: "car-med-mentor", Title: "Message a mentor", Description: "Ask one person ahead of you for fifteen minutes of advice.", Category: domain.CategoryCareer, Difficulty: domain.DifficultyMedium, EstimatedMinutes: 10, TierOrigin: domain.TierMid},
		{ID: "car-hard-raise", Title: "Draft your raise case", Description: "Write down three wins with numbers attached.", Category: domain.CategoryCareer, Difficulty: domain.DifficultyHard, EstimatedMinutes: 40, TierOrigin: domain.TierProfessional},
	}
}
