package common

// CallbackPayloadLimit is the maximum number of bytes Telegram accepts in an
// inline button's callback_data field. Routing prefixes plus tokens must
// always fit under it.
const CallbackPayloadLimit = 64
