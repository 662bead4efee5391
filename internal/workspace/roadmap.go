package workspace

import (
	"math"
	"sync"

	"apex-business/internal/models"
)

// Roadmap tracks completion of the tasks from the latest risks fetch. It
// lives in memory only; toggles are lost when the list is reseeded.
type Roadmap struct {
	mu    sync.RWMutex
	tasks []models.RoadmapTask
}

func NewRoadmap() *Roadmap {
	return &Roadmap{tasks: []models.RoadmapTask{}}
}

// Seed replaces the list. Ids are reassigned 0..n-1 and completion cleared.
func (r *Roadmap) Seed(tasks []models.RoadmapTask) {
	seeded := make([]models.RoadmapTask, len(tasks))
	for i, t := range tasks {
		t.ID = i
		t.IsCompleted = false
		seeded[i] = t
	}

	r.mu.Lock()
	r.tasks = seeded
	r.mu.Unlock()
}

// Toggle flips completion of the task with id. It reports false, and changes
// nothing, when no such task exists.
func (r *Roadmap) Toggle(id int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.tasks {
		if r.tasks[i].ID == id {
			r.tasks[i].IsCompleted = !r.tasks[i].IsCompleted
			return true
		}
	}
	return false
}

// Progress is the rounded completion percentage, 0 for an empty list.
func (r *Roadmap) Progress() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.tasks) == 0 {
		return 0
	}
	done := 0
	for _, t := range r.tasks {
		if t.IsCompleted {
			done++
		}
	}
	return int(math.Round(100 * float64(done) / float64(len(r.tasks))))
}

func (r *Roadmap) Tasks() []models.RoadmapTask {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.RoadmapTask{}, r.tasks...)
}
