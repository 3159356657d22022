package pages

// OpinionForm holds the localized choices for the opinion form.
type OpinionForm struct {
	Categories     []string
	PriorityLevels []string
}

func agendaPath(id, action string) string {
	return "/agendas/" + id + "/" + action
}
