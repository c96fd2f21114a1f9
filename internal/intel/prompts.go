package intel

const enrichmentPrompt = `Extract ALL scam-related intelligence from this conversation.

CONVERSATION:
%s

Look for:
1. Bank account numbers (11-16 digit numbers that look like account numbers)
2. UPI IDs (format: user@bank like abc@ybl, xyz@paytm, 123@okaxis)
3. Phone numbers (Indian format: 10 digits starting with 6-9)
4. URLs and links (especially suspicious or phishing links)
5. Suspicious keywords (urgency words, financial terms, threats)
6. Email addresses
7. Case or complaint reference numbers
8. Insurance policy numbers
9. Order, shipment or transaction numbers

Respond with ONLY valid JSON (no markdown):
{"bankAccounts": [], "upiIds": [], "phoneNumbers": [], "phishingLinks": [], "suspiciousKeywords": [], "emailAddresses": [], "caseIds": [], "policyNumbers": [], "orderNumbers": []}`
