package models

// RoadmapTask is one weekly action item. ID is positional (0..n-1) within its
// list and is reassigned whenever the list is replaced.
type RoadmapTask struct {
	ID          int    `json:"id"`
	Week        int    `json:"week"`
	Title       string `json:"title"`
	Detail      string `json:"detail"`
	IsCompleted bool   `json:"isCompleted"`
}
