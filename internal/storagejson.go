package internal

import (
	"encoding/json"
	"os"
)

// UpdateStorageJSON rewrites workspace references in the host's global
// storage.json when a project moves:
//
//   - backupWorkspaces.folders[].folderUri values
//   - profileAssociations.workspaces keys
//
// The file is decoded generically and re-encoded so unknown fields
// survive untouched. Returns whether anything matched. A missing file
// is not an error; the host simply has no references to fix.
func UpdateStorageJSON(path, oldURI, newURI string, dryRun bool) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, &StorageError{Path: path, Op: "read", Err: err}
	}

	var root map[string]interface{}
	if err := json.Unmarshal(data, &root); err != nil {
		return false, &ParseError{Source: "storage.json", Key: path, Err: err}
	}

	modified := updateBackupFolders(root, oldURI, newURI)
	if updateProfileAssociations(root, oldURI, newURI) {
		modified = true
	}

	if !modified || dryRun {
		return modified, nil
	}

	out, err := json.MarshalIndent(root, "", "    ")
	if err != nil {
		return false, err
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return false, &StorageError{Path: path, Op: "write", Err: err}
	}
	return true, nil
}

func updateBackupFolders(root map[string]interface{}, oldURI, newURI string) bool {
	backup, ok := root["backupWorkspaces"].(map[string]interface{})
	if !ok {
		return false
	}
	folders, ok := backup["folders"].([]interface{})
	if !ok {
		return false
	}

	modified := false
	for _, f := range folders {
		folder, ok := f.(map[string]interface{})
		if !ok {
			continue
		}
		if uri, ok := folder["folderUri"].(string); ok && uri == oldURI {
			folder["folderUri"] = newURI
			modified = true
		}
	}
	return modified
}

func updateProfileAssociations(root map[string]interface{}, oldURI, newURI string) bool {
	assoc, ok := root["profileAssociations"].(map[string]interface{})
	if !ok {
		return false
	}
	workspaces, ok := assoc["workspaces"].(map[string]interface{})
	if !ok {
		return false
	}
	value, ok := workspaces[oldURI]
	if !ok {
		return false
	}
	delete(workspaces, oldURI)
	workspaces[newURI] = value
	return true
}
