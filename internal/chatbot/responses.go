package chatbot

import (
	"fmt"

	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/domain"
)

// ApologyText is returned whenever reply generation faults.
const ApologyText = "I'm sorry, I'm having trouble right now. Please try again later!"

// Fallback texts for the single-purpose surfaces.
const (
	StudyTipsFallback  = "Here are some general study tips:\n1. Take regular breaks (25 min study, 5 min break)\n2. Use active recall techniques\n3. Connect new concepts to things you already know"
	MotivationFallback = "Remember: Every expert was once a beginner. Keep going, you're doing great! 🌟"
)

// ExplainFallback is returned by ExplainConcept when it cannot answer.
func ExplainFallback(concept string) string {
	return fmt.Sprintf("I'd be happy to explain %q! However, I'm having trouble connecting right now. "+
		"Try asking your instructor or checking your course materials for a detailed explanation.", concept)
}

// Confidence levels reported with each kind of reply.
const (
	confidenceArithmetic      = 0.95
	confidenceGreeting        = 0.9
	confidenceFarewell        = 0.9
	confidenceStudyAdvice     = 0.85
	confidenceMotivation      = 0.85
	confidenceHelp            = 0.8
	confidenceHowTo           = 0.7
	confidenceExplained       = 0.9
	confidenceUnknownConcept  = 0.7
	confidenceNoConcept       = 0.6
	confidenceSearch          = 0.8
	confidenceGeneral         = 0.6
	confidenceGeneralInCourse = 0.5
)

const generalStudyTips = "Here are **5 proven study techniques** that work for any subject:\n\n" +
	"1. **Active Recall** - Test yourself instead of just re-reading\n" +
	"2. **Spaced Repetition** - Review material at increasing intervals\n" +
	"3. **Interleaving** - Mix different topics in one study session\n" +
	"4. **Elaboration** - Explain concepts in your own words\n" +
	"5. **Dual Coding** - Combine words with visual aids\n\n" +
	"**Pro Tips:**\n" +
	"• Study in 25-minute focused sessions (Pomodoro Technique)\n" +
	"• Create your own examples and analogies\n" +
	"• Teach the material to someone else\n" +
	"• Get enough sleep - it helps memory consolidation\n" +
	"• Stay hydrated and take regular breaks\n\n" +
	"What specific subject are you studying? I can give you more targeted advice!"

const topicStudyTipsFormat = "Here are 5 specific study tips for learning about **%s**:\n\n" +
	"1. **Research the basics first** - Build a strong foundation\n" +
	"2. **Create mind maps** - Visualize connections between concepts\n" +
	"3. **Practice with examples** - Apply what you learn\n" +
	"4. **Teach someone else** - Explaining reinforces understanding\n" +
	"5. **Review regularly** - Spaced repetition helps retention\n\n" +
	"Would you like me to elaborate on any of these techniques?"

const dailyMotivation = "You're doing amazing! 🌟 Here's your daily dose of motivation:\n\n" +
	"**Remember these truths:**\n" +
	"• Every expert was once a beginner\n" +
	"• Progress, not perfection, is the goal\n" +
	"• Small steps every day add up to big results\n" +
	"• You're building valuable skills that will serve you well\n" +
	"• Learning is a journey, not a destination\n\n" +
	"**You are:**\n" +
	"• Capable of learning anything you set your mind to\n" +
	"• Stronger than any challenge you face\n" +
	"• Worthy of success and achievement\n" +
	"• Making progress every single day\n\n" +
	"**Keep going because:**\n" +
	"• Your future self will thank you\n" +
	"• You're inspiring others around you\n" +
	"• Every obstacle makes you stronger\n" +
	"• Success is just around the corner\n\n" +
	"You've got this! 💪 What's one thing you're proud of accomplishing today?"

// replyTable holds the canned candidates for each intent with a fixed reply list.
var replyTable = map[domain.Intent][]string{
	domain.IntentGreeting: {
		"Hello! 👋 I'm your AI learning assistant. I'm here to help you with:\n\n" +
			"• **Study tips and strategies** - Learn more effectively\n" +
			"• **Understanding difficult concepts** - Break down complex topics\n" +
			"• **Motivation and encouragement** - Stay inspired and focused\n" +
			"• **General learning questions** - Ask anything about your studies\n\n" +
			"What would you like to learn about today? I'm excited to help you on your learning journey! 🌟",
		"Hello! 👋 I'm your AI learning assistant. How can I help you today?",
		"Hi there! I'm here to help with your learning journey. What would you like to know?",
		"Hey! Ready to learn something new? What can I assist you with?",
	},
	domain.IntentFarewell: {
		"Goodbye! Keep up the great work with your studies! 👋",
		"See you later! Don't forget to practice what you've learned!",
		"Take care! Remember, learning is a journey, not a destination.",
	},
	domain.IntentStudyAdvice: {
		generalStudyTips,
		"Here are 5 effective study tips: 1. Use active recall techniques 2. Practice spaced repetition " +
			"3. Take regular breaks (25 min study, 5 min break) 4. Connect new concepts to things you already know " +
			"5. Teach others what you've learned",
		"Great study techniques include: 1. The Pomodoro Technique (25 min focused work) 2. Mind mapping for visual learners " +
			"3. Practice testing yourself 4. Get enough sleep 5. Stay hydrated and exercise",
		"To improve your learning: 1. Set specific goals 2. Use multiple learning methods 3. Review regularly " +
			"4. Apply what you learn 5. Stay curious and ask questions",
	},
	domain.IntentMotivation: {
		dailyMotivation,
		"Remember: Every expert was once a beginner! You're making progress even when it doesn't feel like it. " +
			"Take it one step at a time, and celebrate your small victories. You've got this! 💪",
		"Learning is a journey with ups and downs. When you feel stuck, take a break, then come back with fresh eyes. " +
			"You're capable of amazing things - keep pushing forward!",
		"It's normal to feel overwhelmed when learning something new. Break it down into smaller, manageable pieces. " +
			"You're stronger than you think, and every challenge makes you better!",
	},
	domain.IntentHelp: {
		"I'm here to help! 😊 Here are the different ways I can assist you:\n\n" +
			"**📚 Study Support:**\n" +
			"• Effective study techniques and strategies\n" +
			"• Time management tips\n" +
			"• Memory improvement methods\n" +
			"• Note-taking strategies\n\n" +
			"**🧠 Concept Help:**\n" +
			"• Breaking down complex topics\n" +
			"• Explaining difficult concepts\n" +
			"• Providing examples and analogies\n" +
			"• Connecting related ideas\n\n" +
			"**💪 Motivation & Support:**\n" +
			"• Encouragement when you're struggling\n" +
			"• Strategies for overcoming obstacles\n" +
			"• Building confidence and resilience\n" +
			"• Celebrating your progress\n\n" +
			"**🎯 General Learning:**\n" +
			"• Answering questions about any subject\n" +
			"• Providing resources and references\n" +
			"• Helping you set learning goals\n" +
			"• Guiding you through challenges\n\n" +
			"What specific area would you like help with? Just ask me anything! 🌟",
		"I'm here to help! I can provide study tips, explain concepts, offer motivation, and answer your learning questions. What would you like to know?",
	},
	domain.IntentHowTo: {
		"I'd love to help you with that! To give you the best step-by-step guidance, could you provide more details " +
			"about what you're trying to accomplish? This will help me give you specific instructions that are most relevant to your situation.",
	},
	domain.IntentGeneral: {
		"I'm here to support your learning journey! 🌟 I can help with:\n\n" +
			"• **Study strategies** - Effective learning techniques\n" +
			"• **Concept explanations** - Breaking down complex topics\n" +
			"• **Motivation** - Encouragement and support\n" +
			"• **Question answering** - Help with specific topics\n" +
			"• **Time management** - Organizing your study time\n" +
			"• **Memory techniques** - Improving retention\n\n" +
			"What would you like to learn about or get help with? Just ask me anything! 😊",
		"I'm here to help you learn! I can provide study tips, explain concepts, offer motivation, and answer your questions. What specific topic would you like to explore?",
	},
}

// Candidates returns the canned replies an intent may produce without context.
func Candidates(intent domain.Intent) []string {
	return append([]string(nil), replyTable[intent]...)
}

const noConceptExplanation = "I'd be happy to explain that! To give you the most helpful explanation, " +
	"could you provide more context about what specific concept or topic you'd like me to clarify?"

func lessonGreeting(courseTitle, lessonTitle string) string {
	return fmt.Sprintf("Hello! 👋 I'm your AI learning assistant for **%s** - specifically the lesson on **%s**.\n\n"+
		"I'm here to help you:\n\n"+
		"• **Understand concepts** - Ask me to explain anything unclear\n"+
		"• **Get study tips** - Learn effective strategies for this topic\n"+
		"• **Stay motivated** - Get encouragement when you need it\n"+
		"• **Answer questions** - Ask anything about what you're learning\n\n"+
		"What would you like to know about %s? Or do you have any questions about studying this topic? 😊",
		courseTitle, lessonTitle, lessonTitle)
}

func courseGreeting(courseTitle string) string {
	return fmt.Sprintf("Hello! 👋 I'm your AI learning assistant for **%s**. "+
		"Ask me to explain a concept, share study tips, or keep you motivated. What would you like to work on?", courseTitle)
}

func lessonGeneral(courseTitle, lessonTitle string) string {
	return fmt.Sprintf("I'm here to help with your %s course, specifically the lesson on %s. "+
		"What would you like to know about this topic?", courseTitle, lessonTitle)
}

func genericConceptPrompt(concept string) string {
	return fmt.Sprintf("%q is an important concept in this field. To give you the most accurate explanation, "+
		"could you provide more context about what specific aspect you'd like to understand?", concept)
}
