package i18n

import "golang.org/x/text/language"

// translations maps English source strings to their translations. English
// itself needs no entries.
var translations = map[language.Tag]map[string]string{
	language.French: {
		"Manage":                "Gérer",
		"Annotation Layers":     "Couches d'annotations",
		"Annotations":           "Annotations",
		"List Annotation Layer": "Liste des couches d'annotations",
		"Show Annotation Layer": "Afficher la couche d'annotations",
		"Add Annotation Layer":  "Ajouter une couche d'annotations",
		"Edit Annotation Layer": "Modifier la couche d'annotations",
		"List Annotation":       "Liste des annotations",
		"Show Annotation":       "Afficher l'annotation",
		"Add Annotation":        "Ajouter une annotation",
		"Edit Annotation":       "Modifier l'annotation",

		"Name":          "Nom",
		"Description":   "Description",
		"Layer":         "Couche",
		"Short Descr":   "Description courte",
		"Long Descr":    "Description longue",
		"Start Dttm":    "Date de début",
		"End Dttm":      "Date de fin",
		"JSON Metadata": "Métadonnées JSON",

		"This JSON represents any additional metadata this annotation needs to add more context.": "Ce JSON représente les métadonnées supplémentaires dont cette annotation a besoin pour apporter plus de contexte.",

		"annotation start time or end time is required.": "l'heure de début ou de fin de l'annotation est requise.",

		"Annotation end time must be no earlier than start time.": "L'heure de fin de l'annotation ne peut pas précéder l'heure de début.",

		"Annotation layer does not exist.": "La couche d'annotations n'existe pas.",

		"Save":            "Enregistrer",
		"Delete":          "Supprimer",
		"Delete selected": "Supprimer la sélection",
		"Edit":            "Modifier",
		"Back":            "Retour",
		"Add":             "Ajouter",
		"Show":            "Afficher",
		"Login":           "Connexion",
		"Logout":          "Déconnexion",
		"Username":        "Nom d'utilisateur",
		"Password":        "Mot de passe",
		"Not found":       "Introuvable",

		"Record added.":                 "Enregistrement ajouté.",
		"Record changed.":               "Enregistrement modifié.",
		"Record deleted.":               "Enregistrement supprimé.",
		"Invalid username or password.": "Nom d'utilisateur ou mot de passe invalide.",

		"Annotation layer still has annotations.": "La couche d'annotations contient encore des annotations.",

		"Not a valid datetime, use YYYY-MM-DD HH:MM:SS.": "Date invalide, utilisez AAAA-MM-JJ HH:MM:SS.",

		"Missing data for required field.": "Donnée manquante pour un champ obligatoire.",
		"Not a valid JSON.":                "JSON invalide.",
		"Missing authentication token.":    "Jeton d'authentification manquant.",
		"Invalid token.":                   "Jeton invalide.",
		"Token has expired.":               "Le jeton a expiré.",
	},
	language.Spanish: {
		"Manage":                "Administrar",
		"Annotation Layers":     "Capas de anotación",
		"Annotations":           "Anotaciones",
		"List Annotation Layer": "Listar capas de anotación",
		"Show Annotation Layer": "Mostrar capa de anotación",
		"Add Annotation Layer":  "Añadir capa de anotación",
		"Edit Annotation Layer": "Editar capa de anotación",
		"List Annotation":       "Listar anotaciones",
		"Show Annotation":       "Mostrar anotación",
		"Add Annotation":        "Añadir anotación",
		"Edit Annotation":       "Editar anotación",

		"Name":          "Nombre",
		"Description":   "Descripción",
		"Layer":         "Capa",
		"Short Descr":   "Descripción corta",
		"Long Descr":    "Descripción larga",
		"Start Dttm":    "Fecha de inicio",
		"End Dttm":      "Fecha de fin",
		"JSON Metadata": "Metadatos JSON",

		"This JSON represents any additional metadata this annotation needs to add more context.": "Este JSON representa cualquier metadato adicional que esta anotación necesita para añadir más contexto.",

		"annotation start time or end time is required.": "se requiere la hora de inicio o de fin de la anotación.",

		"Annotation end time must be no earlier than start time.": "La hora de fin de la anotación no puede ser anterior a la hora de inicio.",

		"Annotation layer does not exist.": "La capa de anotación no existe.",

		"Save":            "Guardar",
		"Delete":          "Eliminar",
		"Delete selected": "Eliminar seleccionados",
		"Edit":            "Editar",
		"Back":            "Volver",
		"Add":             "Añadir",
		"Show":            "Mostrar",
		"Login":           "Iniciar sesión",
		"Logout":          "Cerrar sesión",
		"Username":        "Nombre de usuario",
		"Password":        "Contraseña",
		"Not found":       "No encontrado",

		"Record added.":                 "Registro añadido.",
		"Record changed.":               "Registro modificado.",
		"Record deleted.":               "Registro eliminado.",
		"Invalid username or password.": "Usuario o contraseña no válidos.",

		"Annotation layer still has annotations.": "La capa de anotación todavía tiene anotaciones.",

		"Not a valid datetime, use YYYY-MM-DD HH:MM:SS.": "Fecha no válida, use AAAA-MM-DD HH:MM:SS.",

		"Missing data for required field.": "Falta un dato en un campo obligatorio.",
		"Not a valid JSON.":                "JSON no válido.",
		"Missing authentication token.":    "Falta el token de autenticación.",
		"Invalid token.":                   "Token no válido.",
		"Token has expired.":               "El token ha caducado.",
	},
}
