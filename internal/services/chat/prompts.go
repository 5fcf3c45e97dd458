package chat

// Fixed texts of a conversation.
const (
	// SystemPrompt sets the persona and the city mapping. It is never shown.
	SystemPrompt = "Eres un asistente experto en precios de productos de supermercados. " +
		"Cuando un usuario pregunte por el precio, debes extraer el nombre del producto y, " +
		"si se menciona un municipio (por ejemplo, 'Bogotá', 'Medellín', 'Cali', 'Barranquilla'), " +
		"convertir ese municipio en su ID correspondiente (Bogotá=1, Medellín=2, Cali=3, Barranquilla=4) " +
		"y ejecutar la función 'search_prices' con el parámetro 'term' y, si aplica, 'cityId'."

	// Greeting is the first visible assistant message.
	Greeting = "Hola, soy un asistente para consultar precios de productos en Colombia. " +
		"¿Qué producto te gustaría consultar?"

	// ThinkingText is the placeholder shown while waiting for a completion.
	ThinkingText = "Pensando..."

	// SearchingText is the placeholder shown while prices are looked up.
	SearchingText = "Buscando precios..."

	// ErrorText replaces the placeholder when a completion call fails.
	ErrorText = "Lo siento, ocurrió un error al procesar tu solicitud."

	// InvalidToolCallText is appended when the model asks for a tool call
	// that cannot be executed.
	InvalidToolCallText = "No pude interpretar la búsqueda de precios solicitada. ¿Puedes reformular tu pregunta?"

	// ToolResultSuffix follows the formatted prices in the tool message.
	ToolResultSuffix = ". Por favor, usa la información anterior y dime los precios del producto, " +
		"si no, dame información general del producto que encuentres."
)
