package main

import (
	"context"

	"github.com/taskspro/backend/core/quiz"
)

var starterQuizzes = []quiz.NewQuiz{
	{
		Title:      "Data Structures Basics",
		Subject:    "DSA",
		Difficulty: "easy",
		TimeLimit:  300,
		Questions: []quiz.NewQuestion{
			{
				Prompt:      "What is the time complexity of searching in a hash table (average case)?",
				Options:     []string{"O(n)", "O(1)", "O(log n)", "O(n²)"},
				Correct:     1,
				Explanation: "Hash tables provide O(1) average-case lookup using hash functions.",
			},
			{
				Prompt:      "Which data structure uses LIFO ordering?",
				Options:     []string{"Queue", "Array", "Stack", "Linked List"},
				Correct:     2,
				Explanation: "Stack follows Last-In-First-Out (LIFO) principle.",
			},
			{
				Prompt:      "What is the worst case time complexity of QuickSort?",
				Options:     []string{"O(n log n)", "O(n)", "O(n²)", "O(log n)"},
				Correct:     2,
				Explanation: "QuickSort degrades to O(n²) when the pivot is always the smallest/largest element.",
			},
			{
				Prompt:      "Which traversal visits nodes in Left-Root-Right order?",
				Options:     []string{"Preorder", "Inorder", "Postorder", "Level order"},
				Correct:     1,
				Explanation: "Inorder traversal visits left subtree, then root, then right subtree.",
			},
			{
				Prompt:      "A complete binary tree with n nodes has height:",
				Options:     []string{"O(n)", "O(log n)", "O(n²)", "O(1)"},
				Correct:     1,
				Explanation: "A complete binary tree has height O(log n) as each level doubles capacity.",
			},
		},
	},
	{
		Title:      "Web Development Fundamentals",
		Subject:    "Web Dev",
		Difficulty: "medium",
		TimeLimit:  420,
		Questions: []quiz.NewQuestion{
			{
				Prompt:      "Which HTTP method is idempotent?",
				Options:     []string{"POST", "GET", "PATCH", "None"},
				Correct:     1,
				Explanation: "GET requests are idempotent; calling them multiple times produces the same result.",
			},
			{
				Prompt:      "What does CSS stand for?",
				Options:     []string{"Computer Style Sheets", "Cascading Style Sheets", "Creative Style Sheets", "Colorful Style Sheets"},
				Correct:     1,
				Explanation: "CSS = Cascading Style Sheets, used for styling web pages.",
			},
			{
				Prompt:      "Which React hook manages side effects?",
				Options:     []string{"useState", "useEffect", "useRef", "useMemo"},
				Correct:     1,
				Explanation: "useEffect is designed for side effects like data fetching, subscriptions, etc.",
			},
			{
				Prompt:      "What is the default position value in CSS?",
				Options:     []string{"relative", "absolute", "static", "fixed"},
				Correct:     2,
				Explanation: "The default CSS position is 'static'; elements flow normally.",
			},
			{
				Prompt:      "Which status code means 'Not Found'?",
				Options:     []string{"200", "301", "404", "500"},
				Correct:     2,
				Explanation: "HTTP 404 indicates the requested resource was not found on the server.",
			},
		},
	},
}

// seedQuizzes loads the starter quizzes. A non-empty catalog is left alone.
func (cli *commandLine) seedQuizzes() error {
	ctx := context.Background()

	existing, err := cli.quizSvc.QueryAll(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		logger.Printf("quiz catalog not empty (%d quizzes), nothing to do", len(existing))
		return nil
	}

	for _, nq := range starterQuizzes {
		qz, err := cli.quizSvc.Create(ctx, "system", nq)
		if err != nil {
			return err
		}
		logger.Printf("created quiz %q (%s)", qz.Title, qz.ID)
	}
	return nil
}
