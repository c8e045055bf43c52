package wordguess

// catalog is the built-in word list used whenever the word API is absent
// or misbehaving. Hints run vague to specific.
var catalog = []WordRound{
	{Word: "ELEPHANT", Difficulty: DifficultyEasy, Hints: []string{
		"A large animal",
		"It never forgets, they say",
		"It has a trunk and big ears",
	}},
	{Word: "VOLCANO", Difficulty: DifficultyEasy, Hints: []string{
		"A natural landmark",
		"Best admired from a distance",
		"It erupts with lava",
	}},
	{Word: "LIBRARY", Difficulty: DifficultyEasy, Hints: []string{
		"A quiet place",
		"You borrow things here",
		"It is full of books",
	}},
	{Word: "RAINBOW", Difficulty: DifficultyEasy, Hints: []string{
		"Appears in the sky",
		"Needs sun and rain at once",
		"An arc of seven colors",
	}},
	{Word: "PENGUIN", Difficulty: DifficultyEasy, Hints: []string{
		"A bird",
		"It cannot fly",
		"It waddles on Antarctic ice",
	}},
	{Word: "TELESCOPE", Difficulty: DifficultyMedium, Hints: []string{
		"A scientific instrument",
		"Galileo improved it",
		"You look at stars through it",
	}},
	{Word: "AVALANCHE", Difficulty: DifficultyMedium, Hints: []string{
		"A natural disaster",
		"It happens in the mountains",
		"A mass of snow sliding downhill",
	}},
	{Word: "LIGHTHOUSE", Difficulty: DifficultyMedium, Hints: []string{
		"A tall building",
		"Found on the coast",
		"Its beam warns ships at night",
	}},
	{Word: "ORCHESTRA", Difficulty: DifficultyMedium, Hints: []string{
		"A large group",
		"Led by a conductor",
		"Strings, brass, woodwind and percussion together",
	}},
	{Word: "COMPASS", Difficulty: DifficultyMedium, Hints: []string{
		"A navigation tool",
		"It fits in your pocket",
		"Its needle always points north",
	}},
	{Word: "HIBERNATION", Difficulty: DifficultyHard, Hints: []string{
		"Something animals do",
		"It lasts a whole season",
		"Bears do it through the winter",
	}},
	{Word: "CONSTELLATION", Difficulty: DifficultyHard, Hints: []string{
		"Seen at night",
		"The ancients named them after myths",
		"A recognized pattern of stars",
	}},
	{Word: "PHOTOSYNTHESIS", Difficulty: DifficultyHard, Hints: []string{
		"A natural process",
		"It needs sunlight",
		"How plants make their food",
	}},
	{Word: "ARCHIPELAGO", Difficulty: DifficultyHard, Hints: []string{
		"A geographic feature",
		"Greece and Indonesia have famous ones",
		"A chain of islands",
	}},
	{Word: "METAMORPHOSIS", Difficulty: DifficultyHard, Hints: []string{
		"A transformation",
		"Kafka wrote a story with this name",
		"How a caterpillar becomes a butterfly",
	}},
	{Word: "ICE CREAM", Difficulty: DifficultyEasy, Hints: []string{
		"A treat",
		"Best on a hot day",
		"A frozen dessert in a cone",
	}},
	{Word: "SOLAR SYSTEM", Difficulty: DifficultyMedium, Hints: []string{
		"Something very large",
		"We live inside it",
		"The sun and everything orbiting it",
	}},
	{Word: "NORTHERN LIGHTS", Difficulty: DifficultyHard, Hints: []string{
		"A natural spectacle",
		"Seen near the poles",
		"Aurora borealis, dancing in the sky",
	}},
	{Word: "SUBMARINE", Difficulty: DifficultyMedium, Hints: []string{
		"A vehicle",
		"The Beatles sang about a yellow one",
		"It travels underwater",
	}},
	{Word: "CACTUS", Difficulty: DifficultyEasy, Hints: []string{
		"A plant",
		"It barely needs water",
		"Prickly and at home in the desert",
	}},
}
