package persona

import "strings"

// Canned topic-matched replies used when the generator is unavailable. A
// generic apology would end the engagement, so these keep pulling for
// details instead.
type fallbackSet struct {
	topics  []topicReplies
	generic []string
}

type topicReplies struct {
	keyword string
	replies []string
}

var hinglishFallbacks = fallbackSet{
	topics: []topicReplies{
		{"otp", []string{
			"OTP? Phone pe kuch number aaya hai, wo batana hai kya?",
			"Ruko, phone check karti hoon. Kuch message aaya hai.",
		}},
		{"block", []string{
			"Kya? Account block ho jayega? Lekin kyun? Maine kuch galat nahi kiya!",
			"Please block mat karo! Mere saare paise usme hai!",
		}},
		{"bank", []string{
			"Kaun sa account? Mera SBI mein hai. Wo wala?",
			"Bank ka kaam hai to theek hai, bataiye kya karna hai.",
		}},
		{"upi", []string{
			"UPI ID matlab wo Google Pay wala? Ek second, app kholti hoon.",
			"Haan hai mere paas UPI. Kya karna hai?",
		}},
		{"transfer", []string{
			"Paise bhejne hai? Kitne? Aur kahan bhejun?",
			"Transfer? Pehle batao kisko bhejne hai.",
		}},
		{"verify", []string{
			"Verify karna hai? Theek hai, bataiye kya documents chahiye.",
			"Haan haan, verify kar dete hai. Kya karna padega?",
		}},
	},
	generic: []string{
		"Mujhe samajh nahi aa raha. Thoda aur explain kariye.",
		"Kya? Dobara boliye please, suna nahi properly.",
		"Main confuse ho gayi. Step by step batao please.",
	},
}

var englishFallbacks = fallbackSet{
	topics: []topicReplies{
		{"otp", []string{
			"OTP? I received some numbers on my phone. Is that what you need?",
			"Hold on, let me check my messages. Something came through.",
		}},
		{"block", []string{
			"Block my account? But why? I haven't done anything wrong!",
			"Please don't block it! All my savings are in there!",
		}},
		{"bank", []string{
			"Which account are you referring to? I have one with SBI.",
			"If this is bank related, please tell me what I need to do.",
		}},
		{"upi", []string{
			"UPI? You mean Google Pay? Let me open the app.",
			"Yes, I have UPI. What do you need me to do?",
		}},
		{"transfer", []string{
			"Transfer money? How much and where should I send it?",
			"Send money to whom? I need more details please.",
		}},
		{"verify", []string{
			"Verification? Okay, tell me what documents you need.",
			"Yes, I want to verify. What should I do?",
		}},
	},
	generic: []string{
		"I'm sorry, I don't quite understand. Could you explain again?",
		"What was that? Could you repeat please?",
		"I'm a bit confused. Can you tell me step by step?",
	},
}

// FallbackReply returns a topic-matched canned reply for the given message.
// The choice within a topic is a pure function of the message so repeated
// calls are stable.
func FallbackReply(message, language string) string {
	set := englishFallbacks
	if language == "hinglish" {
		set = hinglishFallbacks
	}

	lower := strings.ToLower(message)
	for _, topic := range set.topics {
		if strings.Contains(lower, topic.keyword) {
			return topic.replies[hashOf(message)%uint32(len(topic.replies))]
		}
	}
	return set.generic[hashOf(message)%uint32(len(set.generic))]
}
