package server

// indexPage is the two-tab web UI: store an image, search for one.
const indexPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Image Finder</title>
<style>
  body { font-family: sans-serif; max-width: 720px; margin: 2rem auto; padding: 0 1rem; }
  .tabs button { padding: 0.5rem 1rem; border: 1px solid #ccc; background: #f4f4f4; cursor: pointer; }
  .tabs button.active { background: #fff; border-bottom: none; font-weight: bold; }
  .panel { border: 1px solid #ccc; padding: 1rem; }
  .hidden { display: none; }
  #result-image { width: 100%; margin-top: 1rem; }
  .status { margin-top: 0.75rem; color: #333; }
  .error { color: #b00020; }
  input[type=text] { width: 100%; padding: 0.5rem; box-sizing: border-box; }
</style>
</head>
<body>
<h1>Image Finder</h1>
<p>Store any image, then find it again by describing it in your own words.</p>
<div class="tabs">
  <button id="tab-store" class="active">Store image</button>
  <button id="tab-search">Search image</button>
</div>
<div id="panel-store" class="panel">
  <form id="store-form">
    <input type="file" id="store-file" accept=".jpg,.jpeg,.png" required>
    <button type="submit" id="store-button">Store image</button>
  </form>
  <div id="store-status" class="status"></div>
</div>
<div id="panel-search" class="panel hidden">
  <input type="text" id="search-input" placeholder="Describe the image you are looking for">
  <div id="search-status" class="status"></div>
  <img id="result-image" class="hidden" alt="">
</div>
<script>
const storeTab = document.getElementById('tab-store');
const searchTab = document.getElementById('tab-search');
const storePanel = document.getElementById('panel-store');
const searchPanel = document.getElementById('panel-search');

function activate(tab) {
  storeTab.classList.toggle('active', tab === 'store');
  searchTab.classList.toggle('active', tab === 'search');
  storePanel.classList.toggle('hidden', tab !== 'store');
  searchPanel.classList.toggle('hidden', tab !== 'search');
}
storeTab.addEventListener('click', () => activate('store'));
searchTab.addEventListener('click', () => activate('search'));

const storeForm = document.getElementById('store-form');
const storeButton = document.getElementById('store-button');
const storeStatus = document.getElementById('store-status');

storeForm.addEventListener('submit', async (e) => {
  e.preventDefault();
  const file = document.getElementById('store-file').files[0];
  if (!file || storeButton.disabled) return;
  storeButton.disabled = true;
  storeStatus.className = 'status';
  storeStatus.textContent = 'Captioning and indexing, hang on...';
  const body = new FormData();
  body.append('image', file);
  try {
    const resp = await fetch('/api/v1/images', { method: 'POST', body });
    const out = await resp.json();
    if (!resp.ok) {
      storeStatus.className = 'status error';
      storeStatus.textContent = out.error;
    } else {
      storeStatus.textContent = 'Stored ' + out.file_name + '. Caption: ' + out.caption;
    }
  } catch (err) {
    storeStatus.className = 'status error';
    storeStatus.textContent = err.message;
  } finally {
    storeButton.disabled = false;
  }
});

const searchInput = document.getElementById('search-input');
const searchStatus = document.getElementById('search-status');
const resultImage = document.getElementById('result-image');

searchInput.addEventListener('keydown', async (e) => {
  if (e.key !== 'Enter') return;
  const query = searchInput.value.trim();
  if (!query) return;
  searchStatus.className = 'status';
  searchStatus.textContent = 'Searching...';
  resultImage.classList.add('hidden');
  try {
    const resp = await fetch('/api/v1/search', {
      method: 'POST',
      headers: { 'Content-Type': 'application/json' },
      body: JSON.stringify({ query }),
    });
    const out = await resp.json();
    if (!resp.ok) {
      searchStatus.className = 'status error';
      searchStatus.textContent = out.error;
    } else {
      searchStatus.textContent = out.file_name + ' (score ' + out.score.toFixed(3) + ')';
      resultImage.src = out.url;
      resultImage.classList.remove('hidden');
    }
  } catch (err) {
    searchStatus.className = 'status error';
    searchStatus.textContent = err.message;
  }
});
</script>
</body>
</html>
`
