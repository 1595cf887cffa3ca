package discovery

import "github.com/maxange-developer/master-start2impact/internal/domain"

// offTopicMessages are the localized refusals for out-of-domain queries.
var offTopicMessages = map[string]string{
	"es": "Lo siento, pero solo puedo ayudarte con información sobre Tenerife. ¡Intenta buscar actividades, lugares o experiencias para vivir en Tenerife!",
	"en": "Sorry, but I can only help you with information about Tenerife. Try searching for activities, places, or experiences to live in Tenerife!",
	"it": "Mi dispiace, ma posso aiutarti solo con informazioni su Tenerife. Prova a cercare attività, luoghi o esperienze da vivere a Tenerife!",
}

// refusalMessage returns the off-topic message for a language code.
// Unsupported codes are expected input and fall back to the default language.
func refusalMessage(language string) string {
	if msg, ok := offTopicMessages[language]; ok {
		return msg
	}
	return offTopicMessages[domain.DefaultLanguage]
}
