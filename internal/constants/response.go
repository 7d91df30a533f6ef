package constants

// Standard Response Field Keys
const (
	// Pagination fields
	ResponseFieldTotal     = "total"
	ResponseFieldPage      = "page"
	ResponseFieldPageTotal = "page_total"
	ResponseFieldData      = "data"

	// Grid fields
	ResponseFieldRoute   = "route"
	ResponseFieldLinks   = "links"
	ResponseFieldOptions = "options"

	// Common response fields
	ResponseFieldMessage = "message"
	ResponseFieldDetails = "details"
	ResponseFieldCode    = "code"
)

// Response Format Functions
func BuildListResponse(total int64, page int, pageTotal int, data any) map[string]any {
	return map[string]any{
		ResponseFieldTotal:     total,
		ResponseFieldPage:      page,
		ResponseFieldPageTotal: pageTotal,
		ResponseFieldData:      data,
	}
}

// BuildGridResponse is a list response that also carries the route state the
// page was rendered from and the navigation links derived from it.
func BuildGridResponse(total int64, page int, pageTotal int, data, route, links, options any) map[string]any {
	response := BuildListResponse(total, page, pageTotal, data)
	response[ResponseFieldRoute] = route
	response[ResponseFieldLinks] = links
	if options != nil {
		response[ResponseFieldOptions] = options
	}
	return response
}

func BuildErrorResponse(message string, details any) map[string]any {
	response := map[string]any{
		ResponseFieldMessage: message,
	}

	if details != nil {
		response[ResponseFieldDetails] = details
	}

	return response
}

func BuildSuccessResponse(message string) map[string]any {
	return map[string]any{
		ResponseFieldMessage: message,
	}
}

func BuildDataResponse(message string, data any) map[string]any {
	return map[string]any{
		ResponseFieldMessage: message,
		ResponseFieldData:    data,
	}
}
