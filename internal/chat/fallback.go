package chat

import "math/rand"

// fallbackReplies фиксированный набор нейтральных ответов-заглушек.
// Текст намеренно не раскрывает, почему провайдер не ответил.
var fallbackReplies = []string{
	"Gracias por tu mensaje. Lo hemos recibido correctamente.",
	"Hemos registrado tu solicitud, será atendida a la brevedad.",
	"Tu mensaje fue recibido. Gracias por escribirnos.",
	"Recibido. Seguimos atentos a tu solicitud.",
}

type RandFunc func(n int) int

// Fallback выбирает ответ-заглушку равновероятно, независимо от причины сбоя.
type Fallback struct {
	replies []string
	randInt RandFunc
}

// NewFallback создаёт селектор поверх пакетного rand.Intn.
// Один селектор делится всеми конкурентными запросами, поэтому источник
// случайности обязан быть безопасным для конкурентного доступа.
func NewFallback() *Fallback {
	return &Fallback{replies: fallbackReplies, randInt: rand.Intn}
}

// NewFallbackWithRand создаёт селектор с подменяемым источником случайности.
func NewFallbackWithRand(randInt RandFunc) *Fallback {
	return &Fallback{replies: fallbackReplies, randInt: randInt}
}

func (f *Fallback) Pick() string {
	return f.replies[f.randInt(len(f.replies))]
}

// IsFallbackReply сообщает, принадлежит ли текст набору заглушек.
func IsFallbackReply(text string) bool {
	for _, reply := range fallbackReplies {
		if reply == text {
			return true
		}
	}
	return false
}
