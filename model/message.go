package model

// InboundMessage lưu lại mọi tin nhắn đến để đối soát (audit).
type InboundMessage struct {
	DTO
	FromPhone string `gorm:"index" json:"fromPhone"`
	MsgType   string `json:"msgType"`
	Body      string `gorm:"type:text" json:"body"`
	WamId     string `gorm:"size:128;index" json:"wamId"` // WhatsApp message id
}
