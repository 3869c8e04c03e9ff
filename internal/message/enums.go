package message

// ChatSourceType classifies who originated a ChatFromSimulator message.
type ChatSourceType uint8

const (
	ChatSourceSystem ChatSourceType = 0
	ChatSourceAgent  ChatSourceType = 1
	ChatSourceObject ChatSourceType = 2
)

// IMDialogType classifies ImprovedInstantMessage's Dialog byte.
type IMDialogType uint8

const (
	IMDialogMessageFromAgent  IMDialogType = 0
	IMDialogBusyAutoResponse  IMDialogType = 17
	IMDialogFriendshipOffered IMDialogType = 38
)
