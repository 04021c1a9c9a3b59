// Package quiz runs the multiple-choice training quiz about the application.
package quiz

// Question is one multiple-choice entry. Correct indexes Options.
type Question struct {
	Text        string   `json:"question"`
	Options     []string `json:"options"`
	Correct     int      `json:"-"`
	Explanation string   `json:"-"`
}

// Bank returns the fixed question list in play order.
func Bank() []Question {
	return []Question{
		{
			Text: "Quel est l'objectif principal de l'application OLIVERAQ ?",
			Options: []string{
				"Gérer uniquement la paie des employés d'une presse",
				"Digitaliser et centraliser la gestion complète d'une presse d'huile d'olive",
				"Vendre de l'huile d'olive en ligne au grand public",
			},
			Correct:     1,
			Explanation: "OLIVERAQ est une solution de gestion intégrée pour les presses d'huile d'olive : production, employés, stocks et flux commerciaux.",
		},
		{
			Text: "Qu'apporte OLIVERAQ en termes de traçabilité ?",
			Options: []string{
				"Aucune, c'est une simple interface graphique",
				"Une traçabilité partielle uniquement des paiements",
				"Une traçabilité complète des extractions d'huile et des opérations associées",
			},
			Correct:     2,
			Explanation: "OLIVERAQ permet d'assurer une traçabilité complète des extractions et des opérations liées.",
		},
		{
			Text: "Comment OLIVERAQ aide la prise de décision ?",
			Options: []string{
				"Grâce à des statistiques et rapports détaillés sur l'activité",
				"En envoyant des SMS aux clients automatiquement",
				"En remplaçant totalement le travail de l'opérateur",
			},
			Correct:     0,
			Explanation: "L'application fournit des statistiques et rapports détaillés pour mieux piloter l'activité.",
		},
		{
			Text: "Quel module pédagogique est intégré dans OLIVERAQ ?",
			Options: []string{
				"Un module de jeux vidéo",
				"Un module de quiz pédagogique",
				"Un module de comptabilité avancée",
			},
			Correct:     1,
			Explanation: "Un module de quiz pédagogique permet aux utilisateurs de se former sur OLIVERAQ et sur la gestion des presses.",
		},
		{
			Text: "Que peut faire le chatbot intelligent d'OLIVERAQ ?",
			Options: []string{
				"Uniquement traduire des textes",
				"Saluer l'utilisateur, répondre à ses questions et le guider dans l'application",
				"Gérer automatiquement les transactions bancaires",
			},
			Correct:     1,
			Explanation: "Le chatbot est conçu pour accompagner l'utilisateur : accueil, réponses aux questions fréquentes et aide au parcours dans l'application.",
		},
	}
}
