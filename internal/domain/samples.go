package domain

import "math/rand/v2"

// SampleQuestions are the canned questions offered to users who want to
// poke at the dataset without typing.
var SampleQuestions = []string{
	"What's the Q3 revenue in my region?",
	"What's the Q2 quota in EMEA?",
	"What's the Q4 quota in Asia?",
	"What's the Q1 revenue in LATAM?",
	"What's the Q3 revenue in North America?",
	"What's Q2 commission in LATAM?",
	"What is my Q1 quota?",
	"Is EMEA Q3 revenue higher than Q2?",
	"What's the Q1 profit in my region?",
	"What's the Q2 commission in my region?",
}

// PickSampleQuestion returns a uniformly random sample question.
func PickSampleQuestion() string {
	return SampleQuestions[rand.IntN(len(SampleQuestions))]
}
