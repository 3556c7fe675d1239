package chat

// DemoHistory returns the two conversations a new session starts with when
// demo seeding is enabled. The first one is active.
func DemoHistory() []Conversation {
	return []Conversation{
		{
			ID:          "1",
			Title:       "AI Conference Updates",
			CreatedDate: "April 15, 2025",
			Active:      true,
			Messages: []Message{
				{ID: "msg1", Role: RoleUser, Content: "#AIConference trending tweets", Timestamp: "2:30 PM"},
				{ID: "msg2", Role: RoleAssistant, Timestamp: "2:31 PM", Content: "The AI Conference is generating significant buzz with several key themes emerging: " +
					"1) Advances in large language models showcased by leading research teams, " +
					"2) Ethical AI frameworks becoming a central focus with new guidelines proposed, " +
					"3) Industry applications highlighting healthcare and climate tech innovations, " +
					"4) Concerns about AI regulation with calls for international standards, " +
					"5) Accessibility improvements making AI tools more widely available to smaller organizations."},
			},
		},
		{
			ID:          "2",
			Title:       "SpaceX Launch Coverage",
			CreatedDate: "April 14, 2025",
			Messages: []Message{
				{ID: "msg3", Role: RoleUser, Content: "Latest SpaceX launch tweets", Timestamp: "5:15 PM"},
				{ID: "msg4", Role: RoleAssistant, Timestamp: "5:16 PM", Content: "SpaceX's latest launch has generated extensive Twitter coverage: " +
					"1) Successful deployment of 60 Starlink satellites confirmed, " +
					"2) First stage booster landed on drone ship with precision, " +
					"3) Live streaming reached record viewership of over 2 million concurrent users, " +
					"4) Elon Musk highlighted improved satellite internet speeds coming next month, " +
					"5) Next launch already scheduled for May 3rd carrying international scientific payloads."},
			},
		},
	}
}
