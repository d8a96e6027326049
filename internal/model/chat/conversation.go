package chat

import "time"

// WelcomeText seeds every new conversation as the first assistant message.
const WelcomeText = "星光闪烁，禅意悠长。我是星禅智者。无论您想探寻星象奥秘，还是寻求内心的宁静，我都在此为您指引方向。"

// Conversation captures one transient chat view.
type Conversation struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}
