package dto

import (
	"time"

	"github.com/Valex-Destigos/TooDoo/internal/domains/todo/model"
)

type CreateTodoRequest struct {
	Title       string      `json:"title" validate:"required,max=255"`
	Description string      `json:"description" validate:"max=1024"`
	Due         *time.Time  `json:"due"`
	Reminder    []time.Time `json:"reminder"`
	Repeat      string      `json:"repeat" validate:"required,oneof=Never Daily Weekly Monthly Yearly"`
}

func (c *CreateTodoRequest) ToModel(ownerID int64) model.Todo {
	reminders := make([]model.Reminder, len(c.Reminder))
	for i, at := range c.Reminder {
		reminders[i] = model.Reminder{At: at}
	}

	return model.Todo{
		OwnerID:     ownerID,
		Title:       c.Title,
		Description: c.Description,
		Due:         c.Due,
		Repeat:      model.RepeatRule(c.Repeat),
		Completed:   false,
		Reminders:   reminders,
	}
}

// UpdateTodoRequest is a full replacement representation, including the
// completed flag and the whole reminder set.
type UpdateTodoRequest struct {
	Title       string      `json:"title" validate:"required,max=255"`
	Description string      `json:"description" validate:"max=1024"`
	Due         *time.Time  `json:"due"`
	Reminder    []time.Time `json:"reminder"`
	Repeat      string      `json:"repeat" validate:"required,oneof=Never Daily Weekly Monthly Yearly"`
	Completed   bool        `json:"completed"`
}

func (u *UpdateTodoRequest) ToModel(ownerID, todoID int64) model.Todo {
	reminders := make([]model.Reminder, len(u.Reminder))
	for i, at := range u.Reminder {
		reminders[i] = model.Reminder{At: at}
	}

	return model.Todo{
		ID:          todoID,
		OwnerID:     ownerID,
		Title:       u.Title,
		Description: u.Description,
		Due:         u.Due,
		Repeat:      model.RepeatRule(u.Repeat),
		Completed:   u.Completed,
		Reminders:   reminders,
	}
}

type TodoResponse struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Due         *time.Time  `json:"due"`
	Reminder    []time.Time `json:"reminder"`
	Repeat      string      `json:"repeat"`
	Completed   bool        `json:"completed"`
}

func (r *TodoResponse) FromModel(mod model.Todo) {
	r.ID = mod.ID
	r.Title = mod.Title
	r.Description = mod.Description
	r.Due = mod.Due
	r.Repeat = mod.Repeat.String()
	r.Completed = mod.Completed

	r.Reminder = make([]time.Time, len(mod.Reminders))
	for i, reminder := range mod.Reminders {
		r.Reminder[i] = reminder.At
	}
}

func FromModels(models []model.Todo) []TodoResponse {
	res := make([]TodoResponse, len(models))
	for i, mod := range models {
		res[i].FromModel(mod)
	}

	return res
}
