package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/baltabekpro/tr-velMap/internal/core/domain"
	"github.com/baltabekpro/tr-velMap/internal/core/port"
)

// ChatReply is the assistant's answer plus optional place suggestions.
type ChatReply struct {
	Text   domain.LocalizedText
	Places []domain.Place
}

// chatRule matches a message by keyword and produces a canned reply. Rules are
// evaluated in order; the first match wins.
type chatRule struct {
	keywords []string
	category string
	reply    domain.LocalizedText
}

// ChatService is a keyword-driven travel assistant. It understands Kazakh,
// Russian and English keywords and suggests places from the catalog.
type ChatService struct {
	places port.PlaceRepository
	rules  []chatRule
}

// NewChatService constructs a ChatService with the built-in rule set.
func NewChatService(places port.PlaceRepository) *ChatService {
	return &ChatService{places: places, rules: defaultChatRules}
}

// Reply matches the message against the rule set. Rules carrying a category
// also attach up to three matching places.
func (s *ChatService) Reply(ctx context.Context, message string) (*ChatReply, error) {
	if strings.TrimSpace(message) == "" {
		return nil, NewValidationError("message is required")
	}

	normalized := strings.ToLower(message)

	for _, rule := range s.rules {
		if !matchesAny(normalized, rule.keywords) {
			continue
		}

		reply := &ChatReply{Text: rule.reply}
		if rule.category != "" {
			places, err := s.places.List(ctx, port.PlaceListFilter{Category: rule.category, Limit: 3})
			if err != nil {
				return nil, fmt.Errorf("suggest places: %w", err)
			}
			reply.Places = places
		}
		return reply, nil
	}

	return &ChatReply{Text: fallbackReply}, nil
}

func matchesAny(message string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(message, keyword) {
			return true
		}
	}
	return false
}

var fallbackReply = domain.LocalizedText{
	KK: "Кешіріңіз, түсінбедім. Орындар, ауа райы немесе маршруттар туралы сұраңыз.",
	RU: "Извините, не понял. Спросите о местах, погоде или маршрутах.",
	EN: "Sorry, I did not understand. Ask about places, weather or routes.",
}

var defaultChatRules = []chatRule{
	{
		keywords: []string{"сәлем", "салем", "привет", "здравствуй", "hello", "hi "},
		reply: domain.LocalizedText{
			KK: "Сәлеметсіз бе! Алматы бойынша саяхат көмекшісімін. Не іздеп жүрсіз?",
			RU: "Здравствуйте! Я помощник по путешествиям в Алматы. Что вы ищете?",
			EN: "Hello! I am the Almaty travel assistant. What are you looking for?",
		},
	},
	{
		keywords: []string{"тау", "шыңғыс", "горы", "гора", "mountain", "ski", "шымбұлақ", "шымбулак"},
		category: "mountain",
		reply: domain.LocalizedText{
			KK: "Таулар керемет таңдау! Мына орындарды ұсынамын:",
			RU: "Горы — отличный выбор! Рекомендую эти места:",
			EN: "Mountains are a great choice! I recommend these places:",
		},
	},
	{
		keywords: []string{"табиғат", "көл", "природа", "озеро", "nature", "lake"},
		category: "nature",
		reply: domain.LocalizedText{
			KK: "Табиғат аясында демалу үшін мына орындар бар:",
			RU: "Для отдыха на природе есть эти места:",
			EN: "For a nature getaway there are these places:",
		},
	},
	{
		keywords: []string{"ойын-сауық", "развлечени", "аттракцион", "entertainment", "fun", "көк төбе", "кок тобе"},
		category: "entertainment",
		reply: domain.LocalizedText{
			KK: "Ойын-сауық орындары:",
			RU: "Места для развлечений:",
			EN: "Entertainment spots:",
		},
	},
	{
		keywords: []string{"саябақ", "парк", "park"},
		category: "park",
		reply: domain.LocalizedText{
			KK: "Серуендеуге арналған саябақтар:",
			RU: "Парки для прогулок:",
			EN: "Parks for a walk:",
		},
	},
	{
		keywords: []string{"ауа райы", "погода", "weather", "температура"},
		reply: domain.LocalizedText{
			KK: "Ауа райын басты беттегі виджеттен көре аласыз.",
			RU: "Погоду можно посмотреть в виджете на главной странице.",
			EN: "You can check the weather in the widget on the home page.",
		},
	},
	{
		keywords: []string{"қалай жет", "как добраться", "маршрут", "route", "how to get"},
		reply: domain.LocalizedText{
			KK: "Картадағы орынды таңдап, \"Маршрут\" батырмасын басыңыз.",
			RU: "Выберите место на карте и нажмите кнопку \"Маршрут\".",
			EN: "Pick a place on the map and press the \"Route\" button.",
		},
	},
	{
		keywords: []string{"рахмет", "спасибо", "thank"},
		reply: domain.LocalizedText{
			KK: "Оқасы жоқ! Жақсы демалыс тілеймін!",
			RU: "Пожалуйста! Хорошего отдыха!",
			EN: "You are welcome! Have a great trip!",
		},
	},
}
