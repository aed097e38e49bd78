package utils

// GetStreakEmoji значок серии по длине
func GetStreakEmoji(streak int) string {
	switch {
	case streak >= 30:
		return "🏆"
	case streak >= 7:
		return "🔥"
	case streak >= 3:
		return "✨"
	case streak >= 1:
		return "🌱"
	default:
		return "💤"
	}
}

// GetTierEmoji значок уровня сообщения о росте
func GetTierEmoji(tier int) string {
	switch tier {
	case 1:
		return "🌸"
	case 2:
		return "🌊"
	case 3:
		return "🌱"
	case 4:
		return "🌿"
	case 5:
		return "🌷"
	default:
		return "📌"
	}
}
