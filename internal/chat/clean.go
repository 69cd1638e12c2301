package chat

import "strings"

// CleanResponse убирает из начала ответа модели эхо шаблона промпта.
// Некоторые модели возвращают "Contexto: ..." и "Usuario: ..." перед
// собственным текстом.
func CleanResponse(text string) string {
	cleaned := stripLeadingEcho(text, markerUser)
	cleaned = stripLeadingEcho(cleaned, markerContext)
	return strings.TrimSpace(cleaned)
}

// stripLeadingEcho отрезает текст по строку с маркером включительно
// вместе со следующей пустой строкой. Маркер ищется без учёта регистра
// и удаляется до последнего вхождения: продублированное эхо не должно
// оставить маркер в итоговом тексте.
func stripLeadingEcho(text, marker string) string {
	for {
		idx := strings.Index(strings.ToLower(text), strings.ToLower(marker))
		if idx < 0 {
			return text
		}

		rest := text[idx+len(marker):]
		nl := strings.Index(rest, "\n")
		if nl < 0 {
			// маркер в последней строке, значит весь текст был эхом
			return ""
		}

		text = strings.TrimPrefix(rest[nl+1:], "\n")
	}
}
