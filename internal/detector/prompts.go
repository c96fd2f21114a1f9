package detector

const detectionPrompt = `You are a scam detection expert. Analyze the following message for scam/fraud indicators.

COMMON SCAM INDICATORS:
- Urgency tactics: "immediately", "urgent", "your account will be blocked"
- Financial requests: OTP, bank details, UPI transfers, card numbers
- Authority impersonation: claiming to be from bank, police, government
- Reward/prize scams: "you won", "cashback", "lottery"
- Fear tactics: "legal action", "arrest warrant", "account suspended"
- Suspicious links or requests for personal information
- Pressure to act quickly without verification

SCAM TYPES:
- bank_fraud: Fake bank calls, account verification scams
- upi_fraud: UPI/payment app scams
- phishing: Link-based credential theft
- tech_support: Fake tech support scams
- lottery: Lottery/prize scams
- job_scam: Fake job offers
- kyc_fraud: Fake KYC update requests
- other: Other types
- none: Not a scam

MESSAGE TO ANALYZE:
%s
%s

Respond with ONLY valid JSON (no markdown, no explanation):
{"is_scam": true/false, "confidence": 0.0-1.0, "scam_type": "type", "indicators": ["list", "of", "indicators"]}`
