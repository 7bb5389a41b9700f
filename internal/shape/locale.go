package shape

import (
	"golang.org/x/text/language"
)

// Bundle is one language's message catalog: message id -> rendered text.
type Bundle map[string]string

// BuiltinBundles covers the three launch languages. Keys shared by every
// bundle: the disclaimer, per-band headlines, and the advisory messages
// referenced by the builtin rule table.
func BuiltinBundles() map[string]Bundle {
	return map[string]Bundle{
		"en": {
			"disclaimer":                    "This is general guidance, not a medical diagnosis. If symptoms are severe or worsening, contact a clinician or your local emergency number.",
			"band.low":                      "Your symptoms look manageable with self-care for now.",
			"band.moderate":                 "Consider contacting a clinician within the next day or two.",
			"band.high":                     "Please arrange prompt medical review, ideally today.",
			"band.emergency":                "This could be a medical emergency. Seek immediate medical attention or call your local emergency number now.",
			"advisory.cardiac_emergency":    "Chest pain together with shortness of breath needs emergency assessment.",
			"advisory.severe_bleeding":      "Severe bleeding needs immediate pressure on the wound and emergency care.",
			"advisory.loss_of_consciousness": "A loss of consciousness should always be assessed urgently.",
			"advisory.stroke_signs":         "Possible stroke signs. Call emergency services immediately.",
			"advisory.infant_fever":         "Fever in an infant under two needs urgent clinical review.",
			"advisory.very_high_fever":      "A temperature of 40C or higher needs prompt medical attention.",
			"advisory.persistent_vomiting":  "Vomiting lasting two days or more risks dehydration; seek care.",
			"advisory.breathing_difficulty": "Breathing difficulty with wheezing needs prompt medical review.",
			"advisory.need_more_detail":     "We need a bit more detail about your symptoms to give guidance.",
		},
		"es": {
			"disclaimer":                    "Esta es una orientación general, no un diagnóstico médico. Si los síntomas son graves o empeoran, contacte a un médico o a su número local de emergencias.",
			"band.low":                      "Por ahora sus síntomas parecen manejables con autocuidado.",
			"band.moderate":                 "Considere contactar a un médico en uno o dos días.",
			"band.high":                     "Busque una revisión médica pronto, idealmente hoy.",
			"band.emergency":                "Esto podría ser una emergencia médica. Busque atención inmediata o llame a su número local de emergencias ahora.",
			"advisory.cardiac_emergency":    "El dolor de pecho junto con falta de aire requiere evaluación de emergencia.",
			"advisory.severe_bleeding":      "Un sangrado severo requiere presión inmediata sobre la herida y atención de emergencia.",
			"advisory.loss_of_consciousness": "Una pérdida de conciencia siempre debe evaluarse con urgencia.",
			"advisory.stroke_signs":         "Posibles signos de derrame cerebral. Llame a emergencias de inmediato.",
			"advisory.infant_fever":         "La fiebre en un bebé menor de dos años requiere revisión clínica urgente.",
			"advisory.very_high_fever":      "Una temperatura de 40C o más requiere atención médica inmediata.",
			"advisory.persistent_vomiting":  "Vómitos que duran dos días o más implican riesgo de deshidratación; busque atención.",
			"advisory.breathing_difficulty": "La dificultad para respirar con sibilancias requiere revisión médica pronta.",
			"advisory.need_more_detail":     "Necesitamos más detalles sobre sus síntomas para orientarle.",
		},
		"fr": {
			"disclaimer":                    "Ceci est un conseil général, pas un diagnostic médical. Si les symptômes sont graves ou s'aggravent, contactez un médecin ou votre numéro d'urgence local.",
			"band.low":                      "Vos symptômes semblent gérables avec des soins personnels pour le moment.",
			"band.moderate":                 "Envisagez de contacter un médecin d'ici un jour ou deux.",
			"band.high":                     "Veuillez organiser un examen médical rapide, idéalement aujourd'hui.",
			"band.emergency":                "Cela pourrait être une urgence médicale. Consultez immédiatement ou appelez votre numéro d'urgence local.",
			"advisory.cardiac_emergency":    "Une douleur thoracique avec essoufflement nécessite une évaluation d'urgence.",
			"advisory.severe_bleeding":      "Un saignement sévère nécessite une pression immédiate sur la plaie et des soins d'urgence.",
			"advisory.loss_of_consciousness": "Une perte de connaissance doit toujours être évaluée en urgence.",
			"advisory.stroke_signs":         "Signes possibles d'AVC. Appelez les urgences immédiatement.",
			"advisory.infant_fever":         "La fièvre chez un nourrisson de moins de deux ans nécessite un examen clinique urgent.",
			"advisory.very_high_fever":      "Une température de 40C ou plus nécessite une attention médicale rapide.",
			"advisory.persistent_vomiting":  "Des vomissements durant deux jours ou plus risquent la déshydratation ; consultez.",
			"advisory.breathing_difficulty": "Une difficulté respiratoire avec sifflements nécessite un examen médical rapide.",
			"advisory.need_more_detail":     "Nous avons besoin de plus de détails sur vos symptômes pour vous orienter.",
		},
	}
}

// localizer resolves a requested locale to the closest supported bundle,
// failing open to the default language. It never blocks a response on a
// missing translation.
type localizer struct {
	bundles  map[string]Bundle
	def      string
	tags     []language.Tag
	tagNames []string
	matcher  language.Matcher
}

func newLocalizer(bundles map[string]Bundle, def string) (*localizer, error) {
	l := &localizer{bundles: bundles, def: def}
	// The default language must come first so it wins on no match.
	l.tags = append(l.tags, language.Make(def))
	l.tagNames = append(l.tagNames, def)
	for name := range bundles {
		if name == def {
			continue
		}
		l.tags = append(l.tags, language.Make(name))
		l.tagNames = append(l.tagNames, name)
	}
	l.matcher = language.NewMatcher(l.tags)
	return l, nil
}

// resolve maps a requested locale ("es-MX", "fr", "") onto a bundle name.
// The second result reports whether the request fell back to the default.
func (l *localizer) resolve(requested string) (string, bool) {
	if requested == "" {
		return l.def, false
	}
	tag, err := language.Parse(requested)
	if err != nil {
		return l.def, true
	}
	_, idx, conf := l.matcher.Match(tag)
	if conf == language.No {
		return l.def, true
	}
	name := l.tagNames[idx]
	return name, name != requested && conf < language.High
}

// message looks a key up in the resolved bundle, falling back to the default
// bundle, then to the key itself. The bool reports whether a fallback
// happened; a missing translation is surfaced in the response, never fatal.
func (l *localizer) message(lang, key string) (string, bool) {
	if b, ok := l.bundles[lang]; ok {
		if msg, ok := b[key]; ok {
			return msg, false
		}
	}
	if b, ok := l.bundles[l.def]; ok {
		if msg, ok := b[key]; ok {
			return msg, lang != l.def
		}
	}
	return key, true
}
