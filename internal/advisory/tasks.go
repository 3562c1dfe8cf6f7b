package advisory

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"farm-assist/internal/models"
	"farm-assist/internal/pricing"
)

const taskSystemPrompt = `Magbigay ng listahan ng mga gawain sa bukid base sa weather at crop data.

IMPORTANT RULES:
- TAGALOG LANG
- Maximum 5 tasks
- Practical at specific na mga gawain
- Include priority level (High/Medium/Low)
- Include recommended schedule

FORMAT:
Task 1: (description)
Priority: (level)
Schedule: (recommended time)`

// TaskPlanner turns weather and price conditions into a short list of
// recommended farm tasks.
type TaskPlanner struct {
	gen Generator
}

func NewTaskPlanner(gen Generator) *TaskPlanner {
	return &TaskPlanner{gen: gen}
}

// GenerateTasks asks the text-generation collaborator for task suggestions
// and parses whatever comes back. Generation failures and unparseable
// responses both degrade to an empty list, never an error.
func (tp *TaskPlanner) GenerateTasks(ctx context.Context, snap *models.WeatherSnapshot, predictions []models.PricePrediction) []models.FarmTask {
	type cropSummary struct {
		Crop           string  `json:"crop"`
		PredictedPrice float64 `json:"predicted_price"`
		Market         string  `json:"market,omitempty"`
	}

	summary := struct {
		Weather     models.CurrentConditions `json:"weather"`
		Analysis    string                   `json:"weather_analysis"`
		Crops       []cropSummary            `json:"crops"`
		CurrentDate string                   `json:"current_date"`
	}{
		Analysis:    pricing.ClassifyImpact(snap).Summary(),
		CurrentDate: time.Now().Format("2006-01-02"),
	}
	if snap.Usable() {
		summary.Weather = snap.Current
	}
	for _, p := range predictions {
		summary.Crops = append(summary.Crops, cropSummary{
			Crop:           p.Crop,
			PredictedPrice: p.AdjustedPrice,
			Market:         p.Market,
		})
	}

	payload, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		log.Printf("Failed to encode task context: %v", err)
		return nil
	}

	response, err := tp.gen.Generate(ctx, taskSystemPrompt, string(payload))
	if err != nil {
		log.Printf("Task generation failed: %v", err)
		return nil
	}

	tasks := parseTaskResponse(response)
	if len(tasks) == 0 {
		log.Printf("No tasks were parsed from the task generation response")
	}
	return prioritizeTasks(tasks)
}

// parseTaskResponse extracts tasks from a model response. The model has been
// observed to answer in three shapes: a JSON object keyed "Task 1".."Task N",
// a JSON object with a "tasks" array, or plain Task:/Priority:/Schedule:
// lines. LaTeX \boxed{} wrappers are stripped first.
func parseTaskResponse(response string) []models.FarmTask {
	response = strings.TrimSpace(response)
	if strings.HasPrefix(response, `\boxed{`) && strings.HasSuffix(response, "}") {
		response = strings.TrimSpace(response[len(`\boxed{`) : len(response)-1])
	}
	response = strings.ReplaceAll(response, `\boxed`, "")

	var data any
	if err := json.Unmarshal([]byte(response), &data); err == nil {
		if obj, ok := data.(map[string]any); ok {
			if raw, ok := obj["tasks"]; ok {
				if list, ok := raw.([]any); ok {
					if tasks := tasksFromList(list); len(tasks) > 0 {
						return tasks
					}
				}
			}
			if tasks := tasksFromObject(obj); len(tasks) > 0 {
				return tasks
			}
		}
	}

	return tasksFromLines(response)
}

func tasksFromObject(obj map[string]any) []models.FarmTask {
	var tasks []models.FarmTask
	for _, value := range obj {
		entry, ok := value.(map[string]any)
		if !ok {
			continue
		}
		task := taskFromMap(entry)
		if task.Description != "" {
			tasks = append(tasks, task)
		}
	}
	return tasks
}

func tasksFromList(list []any) []models.FarmTask {
	var tasks []models.FarmTask
	for _, value := range list {
		entry, ok := value.(map[string]any)
		if !ok {
			continue
		}
		task := taskFromMap(entry)
		if task.Description != "" {
			tasks = append(tasks, task)
		}
	}
	return tasks
}

func taskFromMap(entry map[string]any) models.FarmTask {
	description := stringValue(entry, "description")
	if description == "" {
		description = stringValue(entry, "task")
	}
	return models.FarmTask{
		Description: description,
		Priority:    stringValue(entry, "priority"),
		Schedule:    stringValue(entry, "schedule"),
	}
}

func stringValue(entry map[string]any, key string) string {
	if v, ok := entry[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func tasksFromLines(response string) []models.FarmTask {
	var tasks []models.FarmTask
	var current *models.FarmTask

	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "Task"):
			if current != nil {
				tasks = append(tasks, *current)
			}
			current = &models.FarmTask{Description: afterColon(line)}
		case strings.HasPrefix(line, "Priority"):
			if current != nil {
				current.Priority = afterColon(line)
			}
		case strings.HasPrefix(line, "Schedule"):
			if current != nil {
				current.Schedule = afterColon(line)
			}
		}
	}
	if current != nil {
		tasks = append(tasks, *current)
	}
	return tasks
}

func afterColon(line string) string {
	if _, rest, found := strings.Cut(line, ":"); found {
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(line)
}

// prioritizeTasks maps the textual priority to a numeric level: High is 5,
// Low is 1, anything else is a medium 3.
func prioritizeTasks(tasks []models.FarmTask) []models.FarmTask {
	for i := range tasks {
		switch {
		case strings.Contains(tasks[i].Priority, "High"):
			tasks[i].PriorityLevel = 5
		case strings.Contains(tasks[i].Priority, "Low"):
			tasks[i].PriorityLevel = 1
		default:
			tasks[i].PriorityLevel = 3
		}
	}
	return tasks
}
