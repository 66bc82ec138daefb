package service

import (
	"hufschlaeger.net/canvas-clickup-sync/internal/domain/canvas"
	"hufschlaeger.net/canvas-clickup-sync/internal/domain/clickup"
)

// AssociationMap ordnet jeder Assignment-URL höchstens einen Task zu
type AssociationMap struct {
	byURL map[string]clickup.Task
}

func (m AssociationMap) Lookup(assignment canvas.Assignment) (clickup.Task, bool) {
	task, ok := m.byURL[assignment.URL()]
	return task, ok
}

type linkedTask struct {
	link string
	task clickup.Task
}

// Match sucht für jedes Assignment den ersten Task (Abrufreihenfolge), dessen
// Canvas Link der Assignment-URL entspricht. Tasks ohne Canvas Link nehmen
// nicht teil. Mit strict sind mehrere Tasks pro Link ein Fehler.
func Match(assignments []canvas.Assignment, tasks []clickup.Task, strict bool) (AssociationMap, error) {
	candidates := make([]linkedTask, 0, len(tasks))
	for _, task := range tasks {
		link, err := task.CanvasLink()
		if err != nil {
			continue
		}
		candidates = append(candidates, linkedTask{link: link, task: task})
	}

	associations := AssociationMap{byURL: make(map[string]clickup.Task)}

	for _, assignment := range assignments {
		url := assignment.URL()
		if _, done := associations.byURL[url]; done {
			continue
		}

		var matches []clickup.Task
		for _, candidate := range candidates {
			if candidate.link != url {
				continue
			}
			matches = append(matches, candidate.task)
			if !strict {
				break
			}
		}

		if len(matches) == 0 {
			continue
		}
		if strict && len(matches) > 1 {
			ids := make([]string, 0, len(matches))
			for _, m := range matches {
				ids = append(ids, m.ID())
			}
			return AssociationMap{}, &DuplicateLinkError{Link: url, TaskIDs: ids}
		}

		associations.byURL[url] = matches[0]
	}

	return associations, nil
}
