package domain

// Models lists every persisted type in dependency order for migrations.
func Models() []any {
	return []any{
		&Page{},
		&User{},
		&Session{},
		&MagicLink{},
		&TeamMember{},
		&ComponentGroup{},
		&Component{},
		&Incident{},
		&IncidentUpdate{},
		&IncidentComponent{},
		&Subscriber{},
		&SubscriberConfirmation{},
	}
}
