package prompt

import "survey-gen/internal/domain"

// StandardGuidance is the instruction sent for each methodology standard.
var StandardGuidance = map[domain.Standard]string{
	domain.StandardISO20252: "Ensure clarity, transparency, and consistency in question design.",
	domain.StandardAAPOR:    "Minimize bias, ensure clarity, and pretest questions for reliability.",
	domain.StandardESS:      "Ensure cross-cultural comparability and rigorous pretesting.",
	domain.StandardOCDE:     "Focus on psychometric validity and international comparability.",
	domain.StandardESOMAR:   "Respect respondent privacy and avoid intrusive questions.",
}

// questionTypeLabels are the type names the model is asked to use, per survey language.
var questionTypeLabels = map[domain.Language]map[domain.QuestionType]string{
	domain.LanguageFrench: {
		domain.QuestionSingleChoice:   "Choix unique",
		domain.QuestionMultipleChoice: "Choix multiple",
		domain.QuestionOpenEnded:      "Ouvertes",
		domain.QuestionScale:          "Échelles (1-5)",
		domain.QuestionConditional:    "Conditionnelles",
	},
	domain.LanguageEnglish: {
		domain.QuestionSingleChoice:   "Single-choice",
		domain.QuestionMultipleChoice: "Multiple-choice",
		domain.QuestionOpenEnded:      "Open-ended",
		domain.QuestionScale:          "Scales (1-5)",
		domain.QuestionConditional:    "Conditional",
	},
	domain.LanguageSpanish: {
		domain.QuestionSingleChoice:   "Opción única",
		domain.QuestionMultipleChoice: "Opción múltiple",
		domain.QuestionOpenEnded:      "Abiertas",
		domain.QuestionScale:          "Escalas (1-5)",
		domain.QuestionConditional:    "Condicionales",
	},
	domain.LanguageArabic: {
		domain.QuestionSingleChoice:   "اختيار واحد",
		domain.QuestionMultipleChoice: "اختيار متعدد",
		domain.QuestionOpenEnded:      "مفتوحة",
		domain.QuestionScale:          "مقاييس (1-5)",
		domain.QuestionConditional:    "مشروطة",
	},
}

// QuestionTypeLabel returns the label of t in lang, falling back to English and
// then to the canonical key.
func QuestionTypeLabel(lang domain.Language, t domain.QuestionType) string {
	if labels, ok := questionTypeLabels[lang]; ok {
		if label, ok := labels[t]; ok {
			return label
		}
	}
	if label, ok := questionTypeLabels[domain.LanguageEnglish][t]; ok {
		return label
	}
	return string(t)
}

var detailLevelText = map[domain.DetailLevel]string{
	domain.DetailBasic:        "basic",
	domain.DetailDetailed:     "detailed",
	domain.DetailVeryDetailed: "very detailed",
}

// example holds the worked example shown to the model for one survey language.
type example struct {
	outline   string
	intro     string
	recommend string
	yes       string
	no        string
	why       string
	outro     string
}

var examples = map[domain.Language]example{
	domain.LanguageFrench: {
		outline:   "Section 1: Satisfaction\n- Comment êtes-vous satisfait ? (Ouvertes)\n- Recommanderiez-vous ? (Choix unique)\n- Si oui, pourquoi ? (Ouvertes, conditionnelle)",
		intro:     "Merci de participer...",
		recommend: "Recommanderiez-vous notre service ?",
		yes:       "Oui",
		no:        "Non",
		why:       "Si oui, pourquoi ?",
		outro:     "Merci !",
	},
	domain.LanguageEnglish: {
		outline:   "Section 1: Satisfaction\n- How satisfied are you? (Open-ended)\n- Would you recommend? (Single-choice)\n- If yes, why? (Open-ended, conditional)",
		intro:     "Thank you for participating...",
		recommend: "Would you recommend our service?",
		yes:       "Yes",
		no:        "No",
		why:       "If yes, why?",
		outro:     "Thank you!",
	},
	domain.LanguageSpanish: {
		outline:   "Sección 1: Satisfacción\n- ¿Qué tan satisfecho está? (Abiertas)\n- ¿Nos recomendaría? (Opción única)\n- Si es así, ¿por qué? (Abiertas, condicional)",
		intro:     "Gracias por participar...",
		recommend: "¿Recomendaría nuestro servicio?",
		yes:       "Sí",
		no:        "No",
		why:       "Si es así, ¿por qué?",
		outro:     "¡Gracias!",
	},
	domain.LanguageArabic: {
		outline:   "القسم 1: الرضا\n- ما مدى رضاك؟ (مفتوحة)\n- هل توصي بنا؟ (اختيار واحد)\n- إذا كانت الإجابة نعم، لماذا؟ (مفتوحة، مشروطة)",
		intro:     "شكرًا لمشاركتك...",
		recommend: "هل توصي بخدمتنا؟",
		yes:       "نعم",
		no:        "لا",
		why:       "إذا كانت الإجابة نعم، لماذا؟",
		outro:     "شكرًا لك!",
	},
}

func exampleFor(lang domain.Language) example {
	if ex, ok := examples[lang]; ok {
		return ex
	}
	return examples[domain.LanguageEnglish]
}
