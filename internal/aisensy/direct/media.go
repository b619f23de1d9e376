package direct

import (
	op "github.com/RobinCoderZhao/aisensy-mcp/internal/aisensy/operation"
)

func media() []op.Operation {
	sessionID := pathParam("upload_session_id", "The upload session ID.")

	return []op.Operation{
		post("upload_media", "Upload a local media file.", catMedia, "/media", fileParam()),
		post("get_media", "Get media metadata by ID.", catMedia, "/get-media",
			required(str("media_id", "id", "The media ID.")),
		),
		post("create_media_session", "Create a resumable upload session.", catMedia, "/media/session",
			required(str("file_name", "fileName", "Name of the file to upload.")),
			required(str("file_length", "fileLength", "Size of the file in bytes.")),
			required(str("file_type", "fileType", `MIME type of the file, e.g. "image/jpg".`)),
		),
		post("upload_media_to_session", "Upload a local file to a resumable upload session.", catMedia, "/media/session/{upload_session_id}",
			sessionID,
			fileParam(),
			op.Param{Name: "file_offset", Type: op.Integer, In: op.InForm, Key: "fileOffset", Default: 0, Description: "Byte offset to resume from."},
		),
		get("get_upload_session", "Get the state of an upload session.", catMedia, "/media/session/{upload_session_id}", sessionID),
		del("delete_media", "Delete uploaded media.", catMedia, "/media"),
	}
}
