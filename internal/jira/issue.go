package jira

import (
	"fmt"
	"strings"
)

// Issue is the subset of the Jira issue payload the tool needs.
type Issue struct {
	Key    string `json:"key"`
	Fields Fields `json:"fields"`
}

type Fields struct {
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	Status      *Status   `json:"status"`
	Assignee    *Assignee `json:"assignee"`
}

type Status struct {
	Name string `json:"name"`
}

type Assignee struct {
	DisplayName string `json:"displayName"`
}

// StatusName returns the status name, or "Unknown" when absent.
func (i *Issue) StatusName() string {
	if i.Fields.Status == nil || i.Fields.Status.Name == "" {
		return "Unknown"
	}
	return i.Fields.Status.Name
}

// AssigneeName returns the assignee display name, or "Unassigned".
func (i *Issue) AssigneeName() string {
	if i.Fields.Assignee == nil || i.Fields.Assignee.DisplayName == "" {
		return "Unassigned"
	}
	return i.Fields.Assignee.DisplayName
}

// RenderMarkdown formats an issue as a standalone markdown document.
func RenderMarkdown(issue *Issue) string {
	title := issue.Fields.Summary
	if title == "" {
		title = "No title"
	}
	description := issue.Fields.Description
	if strings.TrimSpace(description) == "" {
		description = "No description"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s: %s\n\n", issue.Key, title))
	sb.WriteString(fmt.Sprintf("**Status:** %s\n\n", issue.StatusName()))
	sb.WriteString(fmt.Sprintf("**Assignee:** %s\n\n", issue.AssigneeName()))
	sb.WriteString("**Description:**\n")
	sb.WriteString(description)
	sb.WriteString("\n")
	return sb.String()
}

// StatusCounts tallies issues by status name.
func StatusCounts(issues []*Issue) map[string]int {
	counts := make(map[string]int)
	for _, issue := range issues {
		counts[issue.StatusName()]++
	}
	return counts
}
