package engine

import "tinytrack/internal/help"

func helpMenu() string {
	return help.Menu()
}

func helpTopic(key string) string {
	if body, ok := help.GetTopic(key); ok {
		return body
	}
	return "I don't know that topic. Send 'help' to see the menu."
}
