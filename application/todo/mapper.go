package todo

import "todo/domain/todo"

func toTaskResponse(t todo.Task) *TaskResponse {
	return &TaskResponse{
		ID:   t.ID(),
		Task: t.Text(),
	}
}

func toTaskResponses(tasks []todo.Task) []*TaskResponse {
	result := make([]*TaskResponse, len(tasks))
	for i, t := range tasks {
		result[i] = toTaskResponse(t)
	}
	return result
}
