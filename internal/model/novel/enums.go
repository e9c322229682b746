package novel

// NovelStatus 连载状态
type NovelStatus string

const (
	NovelStatusOngoing   NovelStatus = "Ongoing"   // 连载中
	NovelStatusCompleted NovelStatus = "Completed" // 已完结
)

// ValidStatus 判断状态值是否为已知枚举
func ValidStatus(s NovelStatus) bool {
	return s == NovelStatusOngoing || s == NovelStatusCompleted
}
