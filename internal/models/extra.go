package models

import "encoding/json"

// mergeExtra renders known as a JSON object with extra's keys inlined beside
// it. Keys known already sets are never overwritten.
func mergeExtra(known interface{}, extra map[string]interface{}) ([]byte, error) {
	data, err := json.Marshal(known)
	if err != nil || len(extra) == 0 {
		return data, err
	}
	out := make(map[string]interface{}, len(extra)+8)
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	for k, v := range extra {
		if _, ok := out[k]; !ok {
			out[k] = v
		}
	}
	return json.Marshal(out)
}

// splitExtra decodes data into known and returns every top-level key that is
// not in knownKeys. Identifier keys are dropped so they never shadow the
// stored _id.
func splitExtra(data []byte, known interface{}, knownKeys ...string) (map[string]interface{}, error) {
	if err := json.Unmarshal(data, known); err != nil {
		return nil, err
	}
	var all map[string]interface{}
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	delete(all, "_id")
	delete(all, "id")
	for _, k := range knownKeys {
		delete(all, k)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all, nil
}
