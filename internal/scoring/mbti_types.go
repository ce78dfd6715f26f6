package scoring

// mbtiDescriptions is the canonical table of the 16 four-letter types.
var mbtiDescriptions = map[string]MBTIDescription{
	"ISTJ": {Title: "The Inspector", Summary: "Practical and fact-minded, dependable and thorough in everything they commit to."},
	"ISFJ": {Title: "The Protector", Summary: "Warm and conscientious, devoted to meeting the needs of the people around them."},
	"INFJ": {Title: "The Advocate", Summary: "Quietly principled and insightful, driven by a clear sense of purpose."},
	"INTJ": {Title: "The Architect", Summary: "Independent strategists who see patterns quickly and plan far ahead."},
	"ISTP": {Title: "The Craftsman", Summary: "Observant troubleshooters, calm under pressure and quick with tools and facts."},
	"ISFP": {Title: "The Composer", Summary: "Gentle and adaptable, guided by personal values and an eye for aesthetics."},
	"INFP": {Title: "The Mediator", Summary: "Idealistic and empathetic, loyal to their values and to the people they care about."},
	"INTP": {Title: "The Thinker", Summary: "Analytical and curious, more interested in ideas and models than in small talk."},
	"ESTP": {Title: "The Dynamo", Summary: "Energetic pragmatists who act first, enjoy risk, and read situations fast."},
	"ESFP": {Title: "The Performer", Summary: "Spontaneous and sociable, they bring energy and warmth wherever they go."},
	"ENFP": {Title: "The Champion", Summary: "Enthusiastic and imaginative, they see possibilities in everyone and everything."},
	"ENTP": {Title: "The Visionary", Summary: "Quick-witted debaters, stimulated by challenge and new intellectual terrain."},
	"ESTJ": {Title: "The Supervisor", Summary: "Decisive organizers who value order, tradition, and getting things done."},
	"ESFJ": {Title: "The Provider", Summary: "Attentive and cooperative, they take care of practical and emotional needs alike."},
	"ENFJ": {Title: "The Teacher", Summary: "Charismatic mentors, attuned to others and eager to help them grow."},
	"ENTJ": {Title: "The Commander", Summary: "Bold, strategic leaders who mobilize people toward long-term goals."},
}

// genericMBTIDescription is the defensive fallback for a code outside the
// sixteen-entry table.
var genericMBTIDescription = MBTIDescription{
	Title:   "Your Personality Type",
	Summary: "A balanced combination of preferences across all four dimensions.",
}
