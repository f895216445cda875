package sportcenter

// FetchError records why one location's request produced no payload. Text
// holds whatever response body was read before the failure, possibly empty.
type FetchError struct {
	Error string `json:"error" yaml:"error"`
	Text  string `json:"text" yaml:"text"`
}

// FetchResult is one location's outcome: exactly one of Payload or Err is set.
// Payload is the response body decoded as generic JSON, numbers kept as
// json.Number so hour values keep their original text.
type FetchResult struct {
	Payload any
	Err     *FetchError
}

// Failed reports whether the request for this location failed.
func (r FetchResult) Failed() bool {
	return r.Err != nil
}

// FetchResultMap holds one entry per queried location code.
type FetchResultMap map[string]FetchResult
