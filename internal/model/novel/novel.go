package novel

import "time"

// Novel 小说元数据
// 由搜索结果创建，创建后不再修改；同 ID 的新搜索结果整体取代旧值
type Novel struct {
	ID string `json:"id"` // 小说ID（按标题/来源稳定）

	Title       string   `json:"title"`                 // 小说名称
	Author      string   `json:"author,omitempty"`      // 作者
	Description string   `json:"description,omitempty"` // 简介
	CoverURL    string   `json:"cover_url,omitempty"`   // 封面图引用
	Tags        []string `json:"tags,omitempty"`        // 题材标签

	Status NovelStatus `json:"status"` // 连载状态

	UpdatedAt *time.Time `json:"updated_at,omitempty"` // 最近更新时间（可选）
}
