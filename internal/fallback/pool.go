// Package fallback supplies offline stories when remote generation fails.
package fallback

import "github.com/abhisek/storyquiz/internal/story"

// Builtin returns fresh copies of the stories compiled into the binary.
// Every story has three paragraphs and three four-choice questions.
func Builtin() []story.Story {
	return []story.Story{
		{
			Title: "The Science Fair Mystery",
			Paragraphs: []string{
				"Maya loved science more than anything. When her school announced a science fair, she decided to build a tiny wind turbine that could power a small light bulb.",
				"For weeks, she tested different blade shapes in front of a fan. Some blades barely moved, but others spun so fast that the bulb flickered to life.",
				"On the day of the fair, Maya discovered that her project table had been bumped, and her blades were scattered on the floor. She stayed calm, rebuilt the turbine, and showed the judges how testing and patience helped her design improve.",
			},
			Questions: []story.Question{
				story.NewMultipleChoice("What was Maya building for the science fair?", 0, []string{
					"A robot that could talk",
					"A tiny wind turbine",
					"A solar-powered car",
					"A model of the solar system",
				}, 1),
				story.NewMultipleChoice("Where did Maya test her different blade shapes?", 1, []string{
					"In a swimming pool",
					"In front of a fan",
					"On the school roof",
					"In the gym",
				}, 1),
				story.NewMultipleChoice("How did Maya react when she saw her blades on the floor?", 2, []string{
					"She shouted at her classmates",
					"She went home and quit the fair",
					"She stayed calm and rebuilt the turbine",
					"She asked the judges to skip her project",
				}, 2),
			},
		},
		{
			Title: "The Lost Backpack on the Bus",
			Paragraphs: []string{
				"Jamal always double-checked his backpack before leaving school. One rainy afternoon, he rushed to catch the bus and forgot to zip it closed.",
				"On the ride home, the bus bumped over a pothole. Jamal’s notebook slid out of his open backpack and under the seat without him noticing.",
				"When he got home, Jamal realized his notebook was missing. He thought carefully about his day and remembered the bump on the bus, so he called the bus driver and they found the notebook under the seat.",
			},
			Questions: []story.Question{
				story.NewMultipleChoice("What did Jamal forget to do before he got on the bus?", 0, []string{
					"Put on his shoes",
					"Zip his backpack",
					"Finish his homework",
					"Call his friend",
				}, 1),
				story.NewMultipleChoice("Where did the notebook go when the bus hit the pothole?", 1, []string{
					"Out the window",
					"Into another student’s backpack",
					"Under the seat",
					"Onto the driver’s chair",
				}, 2),
				story.NewMultipleChoice("How did Jamal finally find his notebook?", 2, []string{
					"He searched the school hallway",
					"He called the bus driver",
					"His teacher brought it home",
					"A friend mailed it to him",
				}, 1),
			},
		},
		{
			Title: "The Classroom Garden",
			Paragraphs: []string{
				"Ms. Lopez brought small pots, soil, and seeds to class. She told her students they would grow a mini garden on the windowsill.",
				"Each student planted a seed and wrote their name on the pot. Some seeds sprouted quickly, while others took more time to peek through the soil.",
				"When one student’s seed did not sprout, the class worked together to check the soil, water, and sunlight. They planted a new seed, and the student learned that plants sometimes need a second chance too.",
			},
			Questions: []story.Question{
				story.NewMultipleChoice("Where did the class keep their mini garden?", 0, []string{
					"On the playground",
					"In the gym",
					"On the windowsill",
					"In the cafeteria",
				}, 2),
				story.NewMultipleChoice("What did each student write on their pot?", 1, []string{
					"A science question",
					"A funny joke",
					"Their favorite color",
					"Their name",
				}, 3),
				story.NewMultipleChoice("What did the class do when one seed did not sprout?", 2, []string{
					"They threw the pot away",
					"They ignored it",
					"They checked the plant’s needs and tried again",
					"They stopped watering all the plants",
				}, 2),
			},
		},
		{
			Title: "The Library Map Challenge",
			Paragraphs: []string{
				"The school librarian, Mr. Lee, created a map of the library with clues. He told the class they would use the map to find a hidden box of bookmarks.",
				"The map showed different sections, like history, science, and sports. Each clue led to a new shelf and taught the students how books were organized.",
				"When the class finally found the hidden box, Mr. Lee explained that learning to read maps could help them explore both books and the real world.",
			},
			Questions: []story.Question{
				story.NewMultipleChoice("What did the map in the library lead to?", 0, []string{
					"A secret doorway",
					"A hidden box of bookmarks",
					"A new computer lab",
					"A stack of comic books",
				}, 1),
				story.NewMultipleChoice("Which section was mentioned on the library map?", 1, []string{
					"Weather",
					"History",
					"Cooking",
					"Music videos",
				}, 1),
				story.NewMultipleChoice("What did Mr. Lee want students to learn from the map challenge?", 2, []string{
					"How to whisper quietly",
					"How to walk faster",
					"How to read maps and explore",
					"How to put books on the floor",
				}, 2),
			},
		},
		{
			Title: "The Rainy Day Coding Club",
			Paragraphs: []string{
				"On a rainy Friday, the after-school coding club met in the computer lab. Their challenge was to program a character to move through a simple maze.",
				"At first, the character kept bumping into walls. The students tested different commands, like turn, move forward, and repeat, until the character reached the goal.",
				"By the end of the club, the students realized that fixing mistakes was a normal part of coding, and each error had helped them understand the maze better.",
			},
			Questions: []story.Question{
				story.NewMultipleChoice("What was the challenge at the coding club?", 0, []string{
					"Build a robot dog",
					"Program a character to move through a maze",
					"Design a new video game console",
					"Write a story about coding",
				}, 1),
				story.NewMultipleChoice("Which type of commands did the students test?", 1, []string{
					"Sing and dance",
					"Turn, move forward, and repeat",
					"Jump and spin",
					"Erase and redraw",
				}, 1),
				story.NewMultipleChoice("What did the students learn about mistakes in coding?", 2, []string{
					"Mistakes mean you should quit",
					"Mistakes are normal and help you learn",
					"Only teachers can fix mistakes",
					"Mistakes always break the computer",
				}, 1),
			},
		},
	}
}
